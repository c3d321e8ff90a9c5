package repository

import (
	"context"

	"github.com/alphalist/backend/internal/entity"
	"github.com/alphalist/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	MarkSold(ctx context.Context, id, buyerID string) error
}

type listingRepository struct{}

func NewListingRepository() *listingRepository {
	return &listingRepository{}
}

func (r *listingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	return xcontext.DB(ctx).Create(listing).Error
}

func (r *listingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	var result entity.Listing
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// MarkSold sells the listing at most once.
func (r *listingRepository) MarkSold(ctx context.Context, id, buyerID string) error {
	tx := xcontext.DB(ctx).Model(&entity.Listing{}).
		Where("id=? AND is_sold=?", id, false).
		Updates(map[string]any{"is_sold": true, "buyer_id": buyerID})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
