package testutil

import (
	"context"
	"time"

	"github.com/alphalist/backend/internal/entity"
	"github.com/alphalist/backend/internal/repository"
)

var (
	User1 = entity.User{
		Base:          entity.Base{ID: "user1"},
		Name:          "user1",
		WalletAddress: "0x1111111111111111111111111111111111111111",
	}

	User2 = entity.User{
		Base:          entity.Base{ID: "user2"},
		Name:          "user2",
		WalletAddress: "0x2222222222222222222222222222222222222222",
	}

	User3 = entity.User{
		Base: entity.Base{ID: "user3"},
		Name: "user3",
	}

	OAuth2User1Discord = entity.OAuth2{
		UserID:        User1.ID,
		Service:       "discord",
		ServiceUserID: "discord_user1",
		Username:      "user1#1234",
	}

	OAuth2User1Twitter = entity.OAuth2{
		UserID:        User1.ID,
		Service:       "twitter",
		ServiceUserID: "twitter_user1",
		Username:      "user1_tw",
	}

	Giveaway1 = entity.Giveaway{
		Base:       entity.Base{ID: "giveaway1"},
		Slug:       "giveaway1",
		CreatedBy:  User1.ID,
		Type:       entity.GiveawayFCFS,
		Status:     entity.GiveawayRunning,
		Network:    "eth",
		MaxWinners: 2,
		StartsAt:   time.Now().Add(-time.Hour),
		EndsAt:     time.Now().Add(time.Hour),
	}

	Giveaway2 = entity.Giveaway{
		Base:                entity.Base{ID: "giveaway2"},
		Slug:                "giveaway2",
		CreatedBy:           User1.ID,
		Type:                entity.GiveawayRaffle,
		Status:              entity.GiveawayRunning,
		Network:             "eth",
		MaxWinners:          1,
		PreventDuplicateIps: true,
		StartsAt:            time.Now().Add(-time.Hour),
		EndsAt:              time.Now().Add(time.Hour),
	}
)

// CreateFixtureContext builds a mock context whose database is preloaded
// with the fixture users and giveaways above.
func CreateFixtureContext() context.Context {
	ctx := MockContext()
	InsertUsers(ctx)
	InsertGiveaways(ctx)
	return ctx
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	oauth2Repo := repository.NewOAuth2Repository()

	for _, user := range []entity.User{User1, User2, User3} {
		user := user
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}

	for _, record := range []entity.OAuth2{OAuth2User1Discord, OAuth2User1Twitter} {
		record := record
		if err := oauth2Repo.Create(ctx, &record); err != nil {
			panic(err)
		}
	}
}

func InsertGiveaways(ctx context.Context) {
	giveawayRepo := repository.NewGiveawayRepository()

	for _, giveaway := range []entity.Giveaway{Giveaway1, Giveaway2} {
		giveaway := giveaway
		if err := giveawayRepo.Create(ctx, &giveaway); err != nil {
			panic(err)
		}
	}
}
