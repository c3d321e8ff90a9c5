package testutil

import (
	"context"
	"errors"
	"math/big"

	"github.com/alphalist/backend/pkg/api/discord"
	"github.com/alphalist/backend/pkg/api/twitter"
)

type MockDiscordEndpoint struct {
	GetMemberFunc   func(ctx context.Context, guildID, userID string) (discord.Member, error)
	GetRolesFunc    func(ctx context.Context, guildID string) ([]discord.Role, error)
	HasAddedBotFunc func(ctx context.Context, guildID string) (bool, error)
}

func (e *MockDiscordEndpoint) GetMember(ctx context.Context, guildID, userID string) (discord.Member, error) {
	if e.GetMemberFunc != nil {
		return e.GetMemberFunc(ctx, guildID, userID)
	}

	return discord.Member{}, errors.New("not implemented")
}

func (e *MockDiscordEndpoint) GetRoles(ctx context.Context, guildID string) ([]discord.Role, error) {
	if e.GetRolesFunc != nil {
		return e.GetRolesFunc(ctx, guildID)
	}

	return nil, errors.New("not implemented")
}

func (e *MockDiscordEndpoint) HasAddedBot(ctx context.Context, guildID string) (bool, error) {
	if e.HasAddedBotFunc != nil {
		return e.HasAddedBotFunc(ctx, guildID)
	}

	return false, errors.New("not implemented")
}

type MockTwitterEndpoint struct {
	GetUserFunc        func(ctx context.Context, screenName string) (twitter.User, error)
	GetTweetFunc       func(ctx context.Context, screenName, tweetID string) (twitter.Tweet, error)
	CheckFollowingFunc func(ctx context.Context, source, target string) (bool, error)
}

func (e *MockTwitterEndpoint) GetUser(ctx context.Context, screenName string) (twitter.User, error) {
	if e.GetUserFunc != nil {
		return e.GetUserFunc(ctx, screenName)
	}

	return twitter.User{}, errors.New("not implemented")
}

func (e *MockTwitterEndpoint) GetTweet(ctx context.Context, screenName, tweetID string) (twitter.Tweet, error) {
	if e.GetTweetFunc != nil {
		return e.GetTweetFunc(ctx, screenName, tweetID)
	}

	return twitter.Tweet{}, errors.New("not implemented")
}

func (e *MockTwitterEndpoint) CheckFollowing(ctx context.Context, source, target string) (bool, error) {
	if e.CheckFollowingFunc != nil {
		return e.CheckFollowingFunc(ctx, source, target)
	}

	return false, errors.New("not implemented")
}

type MockChainIndexer struct {
	TokenBalanceFunc func(ctx context.Context, address, tokenAddress string) (*big.Int, error)
	OwnsNFTFunc      func(ctx context.Context, address, collectionAddress string) (bool, error)
}

func (i *MockChainIndexer) TokenBalance(ctx context.Context, address, tokenAddress string) (*big.Int, error) {
	if i.TokenBalanceFunc != nil {
		return i.TokenBalanceFunc(ctx, address, tokenAddress)
	}

	return nil, errors.New("not implemented")
}

func (i *MockChainIndexer) OwnsNFT(ctx context.Context, address, collectionAddress string) (bool, error) {
	if i.OwnsNFTFunc != nil {
		return i.OwnsNFTFunc(ctx, address, collectionAddress)
	}

	return false, errors.New("not implemented")
}
