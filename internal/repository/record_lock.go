package repository

import (
	"context"
	"errors"

	"github.com/alphalist/backend/internal/entity"
	"github.com/alphalist/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// ErrAlreadyLocked means another caller holds the lock, so the guarded
// operation is running (or finished) elsewhere. Do not retry the business
// operation on it.
var ErrAlreadyLocked = errors.New("resource is already locked")

type RecordLockRepository interface {
	Acquire(ctx context.Context, resourceID string) error
	Release(ctx context.Context, resourceID string) error
}

type recordLockRepository struct{}

func NewRecordLockRepository() *recordLockRepository {
	return &recordLockRepository{}
}

// Acquire inserts the lock row. The uniqueness of resource_id makes the
// insert the atomic acquisition.
func (r *recordLockRepository) Acquire(ctx context.Context, resourceID string) error {
	err := xcontext.DB(ctx).Create(&entity.RecordLock{ResourceID: resourceID}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyLocked
		}

		return err
	}

	return nil
}

func (r *recordLockRepository) Release(ctx context.Context, resourceID string) error {
	return xcontext.DB(ctx).Delete(&entity.RecordLock{ResourceID: resourceID}).Error
}
