package repository

import (
	"context"
	"time"

	"github.com/alphalist/backend/internal/entity"
	"github.com/alphalist/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type GiveawayRepository interface {
	Create(ctx context.Context, giveaway *entity.Giveaway) error
	GetByID(ctx context.Context, id string) (*entity.Giveaway, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Giveaway, error)
	Finalize(ctx context.Context, id string, endsAt time.Time) error
	CheckAndTakeSlot(ctx context.Context, id string) error
	IncreaseEntryCount(ctx context.Context, id string) error

	CreateEntry(ctx context.Context, entry *entity.GiveawayEntry) error
	GetEntry(ctx context.Context, giveawayID, userID string) (*entity.GiveawayEntry, error)
	GetEntryByIpHash(ctx context.Context, giveawayID, ipHash string) (*entity.GiveawayEntry, error)
	GetEntryByUniqueConstraint(ctx context.Context, giveawayID, constraint string) (*entity.GiveawayEntry, error)
	GetEntriesByGiveawayID(ctx context.Context, giveawayID string) ([]entity.GiveawayEntry, error)
	CountEntries(ctx context.Context, giveawayID string) (int64, error)
	SetEntryWinner(ctx context.Context, entryID string) error
}

type giveawayRepository struct{}

func NewGiveawayRepository() *giveawayRepository {
	return &giveawayRepository{}
}

func (r *giveawayRepository) Create(ctx context.Context, giveaway *entity.Giveaway) error {
	return xcontext.DB(ctx).Create(giveaway).Error
}

func (r *giveawayRepository) GetByID(ctx context.Context, id string) (*entity.Giveaway, error) {
	var result entity.Giveaway
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *giveawayRepository) GetBySlug(ctx context.Context, slug string) (*entity.Giveaway, error) {
	var result entity.Giveaway
	if err := xcontext.DB(ctx).Take(&result, "slug=?", slug).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// Finalize transitions a running giveaway to finalized. It returns
// gorm.ErrRecordNotFound if the giveaway was already finalized by another
// admission.
func (r *giveawayRepository) Finalize(ctx context.Context, id string, endsAt time.Time) error {
	tx := xcontext.DB(ctx).Model(&entity.Giveaway{}).
		Where("id=? AND status=?", id, entity.GiveawayRunning).
		Updates(map[string]any{"status": entity.GiveawayFinalized, "ends_at": endsAt})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// CheckAndTakeSlot reserves one FCFS slot with a guarded increment. The
// update row locks the giveaway until the surrounding transaction ends, so
// concurrent admissions for the same giveaway are serialized even on stores
// without write-conflict abort. It returns gorm.ErrRecordNotFound when no
// capacity is left.
func (r *giveawayRepository) CheckAndTakeSlot(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Model(&entity.Giveaway{}).
		Where("id=? AND status=? AND entry_count < max_winners", id, entity.GiveawayRunning).
		Update("entry_count", gorm.Expr("entry_count+?", 1))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// IncreaseEntryCount bumps the raffle display counter. It is never used for
// capacity decisions.
func (r *giveawayRepository) IncreaseEntryCount(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Model(&entity.Giveaway{}).
		Where("id=?", id).
		Update("entry_count", gorm.Expr("entry_count+?", 1)).Error
}

func (r *giveawayRepository) CreateEntry(ctx context.Context, entry *entity.GiveawayEntry) error {
	return xcontext.DB(ctx).Create(entry).Error
}

func (r *giveawayRepository) GetEntry(ctx context.Context, giveawayID, userID string) (*entity.GiveawayEntry, error) {
	var result entity.GiveawayEntry
	err := xcontext.DB(ctx).
		Take(&result, "giveaway_id=? AND user_id=?", giveawayID, userID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *giveawayRepository) GetEntryByIpHash(
	ctx context.Context, giveawayID, ipHash string,
) (*entity.GiveawayEntry, error) {
	var result entity.GiveawayEntry
	err := xcontext.DB(ctx).
		Take(&result, "giveaway_id=? AND ip_hash=?", giveawayID, ipHash).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *giveawayRepository) GetEntryByUniqueConstraint(
	ctx context.Context, giveawayID, constraint string,
) (*entity.GiveawayEntry, error) {
	var result entity.GiveawayEntry
	err := xcontext.DB(ctx).
		Take(&result, "giveaway_id=? AND unique_constraint=?", giveawayID, constraint).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *giveawayRepository) GetEntriesByGiveawayID(
	ctx context.Context, giveawayID string,
) ([]entity.GiveawayEntry, error) {
	var result []entity.GiveawayEntry
	if err := xcontext.DB(ctx).Find(&result, "giveaway_id=?", giveawayID).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *giveawayRepository) CountEntries(ctx context.Context, giveawayID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.GiveawayEntry{}).
		Where("giveaway_id=?", giveawayID).Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *giveawayRepository) SetEntryWinner(ctx context.Context, entryID string) error {
	tx := xcontext.DB(ctx).Model(&entity.GiveawayEntry{}).
		Where("id=? AND is_winner IS NULL", entryID).
		Update("is_winner", true)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
