package repository

import (
	"context"

	"github.com/alphalist/backend/internal/entity"
	"github.com/alphalist/backend/pkg/xcontext"
)

type StakerRepository interface {
	Create(ctx context.Context, staker *entity.Staker) error
	GetPositiveStaked(ctx context.Context) ([]entity.Staker, error)
}

type stakerRepository struct{}

func NewStakerRepository() *stakerRepository {
	return &stakerRepository{}
}

func (r *stakerRepository) Create(ctx context.Context, staker *entity.Staker) error {
	return xcontext.DB(ctx).Create(staker).Error
}

func (r *stakerRepository) GetPositiveStaked(ctx context.Context) ([]entity.Staker, error) {
	var result []entity.Staker
	if err := xcontext.DB(ctx).Find(&result, "staked_amount > 0").Error; err != nil {
		return nil, err
	}

	return result, nil
}
