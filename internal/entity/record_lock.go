package entity

import "time"

// RecordLock is the fulfillment ledger row. Creating it is the atomic lock
// acquisition: a duplicated key on insert means another caller holds it.
type RecordLock struct {
	ResourceID string `gorm:"primaryKey"`
	CreatedAt  time.Time
}
