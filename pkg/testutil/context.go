package testutil

import (
	"context"

	"github.com/alphalist/backend/config"
	"github.com/alphalist/backend/internal/entity"
	"github.com/alphalist/backend/pkg/logger"
	"github.com/alphalist/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.ERROR))
	ctx = xcontext.WithDB(ctx, MockDatabase())

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockConfigs() config.Configs {
	return config.Configs{
		Env: "testing",
		Auth: config.AuthConfigs{
			Discord: config.DiscordConfigs{Name: "discord"},
			Twitter: config.TwitterConfigs{Name: "twitter"},
		},
		Giveaway: config.GiveawayConfigs{
			IPSecret: "testing-ip-secret",
		},
		Lottery: config.LotteryConfigs{
			WinnerShareRate:     0.4,
			JackpotProbability:  0.0343,
			SampleAttemptFactor: 5,
		},
	}
}

func MockDatabase() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		panic(err)
	}

	return db
}
