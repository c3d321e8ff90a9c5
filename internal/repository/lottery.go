package repository

import (
	"context"

	"github.com/alphalist/backend/internal/entity"
	"github.com/alphalist/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type LotteryRepository interface {
	Create(ctx context.Context, lottery *entity.Lottery) error
	GetByID(ctx context.Context, id string) (*entity.Lottery, error)
	Finalize(ctx context.Context, id string) error

	CreateWinner(ctx context.Context, winner *entity.LotteryWinner) error
	GetWinnersByLotteryID(ctx context.Context, lotteryID string) ([]entity.LotteryWinner, error)
}

type lotteryRepository struct{}

func NewLotteryRepository() *lotteryRepository {
	return &lotteryRepository{}
}

func (r *lotteryRepository) Create(ctx context.Context, lottery *entity.Lottery) error {
	return xcontext.DB(ctx).Create(lottery).Error
}

func (r *lotteryRepository) GetByID(ctx context.Context, id string) (*entity.Lottery, error) {
	var result entity.Lottery
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// Finalize marks the lottery processed. It returns gorm.ErrRecordNotFound if
// the lottery was already processed, so a second draw cannot start.
func (r *lotteryRepository) Finalize(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Model(&entity.Lottery{}).
		Where("id=? AND processed=?", id, false).
		Updates(map[string]any{"processed": true, "status": entity.LotteryFinalized})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *lotteryRepository) CreateWinner(ctx context.Context, winner *entity.LotteryWinner) error {
	return xcontext.DB(ctx).Create(winner).Error
}

func (r *lotteryRepository) GetWinnersByLotteryID(
	ctx context.Context, lotteryID string,
) ([]entity.LotteryWinner, error) {
	var result []entity.LotteryWinner
	if err := xcontext.DB(ctx).Find(&result, "lottery_id=?", lotteryID).Error; err != nil {
		return nil, err
	}

	return result, nil
}
