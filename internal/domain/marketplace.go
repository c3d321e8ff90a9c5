package domain

import (
	"context"
	"errors"

	"github.com/alphalist/backend/internal/model"
	"github.com/alphalist/backend/internal/repository"
	"github.com/alphalist/backend/pkg/errorx"
	"github.com/alphalist/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type MarketplaceDomain interface {
	FulfillListing(context.Context, *model.FulfillListingRequest) (*model.FulfillListingResponse, error)
}

type marketplaceDomain struct {
	listingRepo    repository.ListingRepository
	recordLockRepo repository.RecordLockRepository
}

func NewMarketplaceDomain(
	listingRepo repository.ListingRepository,
	recordLockRepo repository.RecordLockRepository,
) *marketplaceDomain {
	return &marketplaceDomain{
		listingRepo:    listingRepo,
		recordLockRepo: recordLockRepo,
	}
}

// FulfillListing marks the listing sold exactly once. The whole mutation is
// bracketed by the record lock, and a held lock means another caller already
// completed the sale.
func (d *marketplaceDomain) FulfillListing(
	ctx context.Context, req *model.FulfillListingRequest,
) (*model.FulfillListingResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "User is not authenticated")
	}

	resourceID := "listing/" + req.ListingID
	if err := d.recordLockRepo.Acquire(ctx, resourceID); err != nil {
		if errors.Is(err, repository.ErrAlreadyLocked) {
			return nil, errorx.New(errorx.AlreadyExists, "The listing is being fulfilled")
		}

		xcontext.Logger(ctx).Errorf("Cannot acquire record lock: %v", err)
		return nil, errorx.Unknown
	}

	defer func() {
		if err := d.recordLockRepo.Release(ctx, resourceID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot release record lock: %v", err)
		}
	}()

	listing, err := d.listingRepo.GetByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found listing")
		}

		xcontext.Logger(ctx).Errorf("Cannot get listing: %v", err)
		return nil, errorx.Unknown
	}

	if listing.IsSold {
		return nil, errorx.New(errorx.AlreadyExists, "The listing has already been sold")
	}

	if err := d.listingRepo.MarkSold(ctx, req.ListingID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyExists, "The listing has already been sold")
		}

		xcontext.Logger(ctx).Errorf("Cannot mark listing as sold: %v", err)
		return nil, errorx.Unknown
	}

	return &model.FulfillListingResponse{}, nil
}
