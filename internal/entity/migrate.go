package entity

import (
	"context"

	"github.com/alphalist/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&OAuth2{},
		&Giveaway{},
		&GiveawayEntry{},
		&Lottery{},
		&LotteryWinner{},
		&Staker{},
		&Listing{},
		&RecordLock{},
	)
}
