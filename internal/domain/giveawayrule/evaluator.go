package giveawayrule

import (
	"context"
	"math/big"
	"strings"

	"github.com/alphalist/backend/pkg/errorx"
	"github.com/alphalist/backend/pkg/xcontext"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/exp/slices"
)

// Minimum Balance Evaluator
type minimumBalanceEvaluator struct {
	TokenAddress string  `mapstructure:"token_address" structs:"token_address"`
	Minimum      float64 `mapstructure:"minimum" structs:"minimum"`
	Decimals     int     `mapstructure:"decimals" structs:"decimals"`

	factory Factory
}

func newMinimumBalanceEvaluator(
	ctx context.Context, factory Factory, data map[string]any, needParse bool,
) (*minimumBalanceEvaluator, error) {
	minimumBalance := minimumBalanceEvaluator{}
	err := mapstructure.Decode(data, &minimumBalance)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	if needParse {
		if minimumBalance.Minimum <= 0 {
			return nil, errorx.New(errorx.BadRequest, "Minimum balance must be positive")
		}

		if minimumBalance.Decimals < 0 {
			return nil, errorx.New(errorx.BadRequest, "Invalid token decimals")
		}
	}

	minimumBalance.factory = factory
	return &minimumBalance, nil
}

func (e *minimumBalanceEvaluator) Evaluate(ctx context.Context, claimant Claimant) (Result, error) {
	if claimant.WalletAddress == "" {
		return fail("User has not provided a wallet address"), nil
	}

	balance, err := e.factory.chainIndexer.TokenBalance(ctx, claimant.WalletAddress, e.TokenAddress)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get token balance: %v", err)
		return Result{}, errorx.New(errorx.Unavailable, "Cannot verify token balance")
	}

	value := new(big.Float).SetInt(balance)
	if e.Decimals > 0 {
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(e.Decimals)), nil)
		value.Quo(value, new(big.Float).SetInt(scale))
	}

	if value.Cmp(big.NewFloat(e.Minimum)) < 0 {
		return fail("User does not hold the minimum balance"), nil
	}

	return pass(), nil
}

// Own NFT Evaluator
type ownNFTEvaluator struct {
	Collection string `mapstructure:"collection" structs:"collection"`

	factory Factory
}

func newOwnNFTEvaluator(
	ctx context.Context, factory Factory, data map[string]any, needParse bool,
) (*ownNFTEvaluator, error) {
	ownNFT := ownNFTEvaluator{}
	err := mapstructure.Decode(data, &ownNFT)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	if needParse {
		if ownNFT.Collection == "" {
			return nil, errorx.New(errorx.NotFound, "Not found collection")
		}
	}

	ownNFT.factory = factory
	return &ownNFT, nil
}

func (e *ownNFTEvaluator) Evaluate(ctx context.Context, claimant Claimant) (Result, error) {
	if claimant.WalletAddress == "" {
		return fail("User has not provided a wallet address"), nil
	}

	owns, err := e.factory.chainIndexer.OwnsNFT(ctx, claimant.WalletAddress, e.Collection)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot check nft ownership: %v", err)
		return Result{}, errorx.New(errorx.Unavailable, "Cannot verify nft ownership")
	}

	if !owns {
		return fail("User does not own a token of the collection"), nil
	}

	return pass(), nil
}

// Discord Role Evaluator
type discordRoleEvaluator struct {
	GuildID    string `mapstructure:"guild_id" structs:"guild_id"`
	RoleID     string `mapstructure:"role_id" structs:"role_id"`
	Multiplier int    `mapstructure:"multiplier" structs:"multiplier"`

	factory Factory
}

func newDiscordRoleEvaluator(
	ctx context.Context, factory Factory, data map[string]any, needParse bool,
) (*discordRoleEvaluator, error) {
	discordRole := discordRoleEvaluator{}
	err := mapstructure.Decode(data, &discordRole)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	if needParse {
		if discordRole.GuildID == "" {
			return nil, errorx.New(errorx.NotFound, "Not found guild id")
		}

		if discordRole.Multiplier < 0 {
			return nil, errorx.New(errorx.BadRequest, "Multiplier must not be negative")
		}

		roles, err := factory.discordEndpoint.GetRoles(ctx, discordRole.GuildID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot get discord roles: %v", err)
			return nil, errorx.New(errorx.Unavailable, "Cannot verify discord role")
		}

		found := false
		for _, role := range roles {
			if role.ID == discordRole.RoleID {
				found = true
				break
			}
		}

		if !found {
			return nil, errorx.New(errorx.NotFound, "Not found role in the guild")
		}
	}

	discordRole.factory = factory
	return &discordRole, nil
}

func (e *discordRoleEvaluator) Evaluate(ctx context.Context, claimant Claimant) (Result, error) {
	account, ok := claimant.Accounts[xcontext.Configs(ctx).Auth.Discord.Name]
	if !ok {
		return fail("User has not connected to discord"), nil
	}

	member, err := e.factory.discordEndpoint.GetMember(ctx, e.GuildID, account.ServiceUserID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get discord member: %v", err)
		return Result{}, errorx.New(errorx.Unavailable, "Cannot verify discord member")
	}

	if member.ID == "" {
		return fail("User has not joined the discord server"), nil
	}

	if !slices.Contains(member.Roles, e.RoleID) {
		return fail("User does not have the required discord role"), nil
	}

	result := pass()
	result.Multiplier = e.Multiplier
	result.UniqueConstraint = "discord:" + account.ServiceUserID
	return result, nil
}

// Discord Guild Evaluator
type discordGuildEvaluator struct {
	GuildID string `mapstructure:"guild_id" structs:"guild_id"`

	factory Factory
}

func newDiscordGuildEvaluator(
	ctx context.Context, factory Factory, data map[string]any, needParse bool,
) (*discordGuildEvaluator, error) {
	discordGuild := discordGuildEvaluator{}
	err := mapstructure.Decode(data, &discordGuild)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	if needParse {
		if discordGuild.GuildID == "" {
			return nil, errorx.New(errorx.NotFound, "Not found guild id")
		}

		hasAddedBot, err := factory.discordEndpoint.HasAddedBot(ctx, discordGuild.GuildID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot call api hasAddedBot: %v", err)
			return nil, errorx.New(errorx.Unavailable, "Cannot verify discord server")
		}

		if !hasAddedBot {
			return nil, errorx.New(errorx.Unavailable, "Server hasn't added the bot yet")
		}
	}

	discordGuild.factory = factory
	return &discordGuild, nil
}

func (e *discordGuildEvaluator) Evaluate(ctx context.Context, claimant Claimant) (Result, error) {
	account, ok := claimant.Accounts[xcontext.Configs(ctx).Auth.Discord.Name]
	if !ok {
		return fail("User has not connected to discord"), nil
	}

	member, err := e.factory.discordEndpoint.GetMember(ctx, e.GuildID, account.ServiceUserID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get discord member: %v", err)
		return Result{}, errorx.New(errorx.Unavailable, "Cannot verify discord member")
	}

	if member.ID == "" {
		return fail("User has not joined the discord server"), nil
	}

	result := pass()
	result.UniqueConstraint = "discord:" + account.ServiceUserID
	return result, nil
}

// Twitter Friendship Evaluator
type twitterFriendshipEvaluator struct {
	TargetHandle string `mapstructure:"target_handle" structs:"target_handle"`

	factory Factory
}

func newTwitterFriendshipEvaluator(
	ctx context.Context, factory Factory, data map[string]any, needParse bool,
) (*twitterFriendshipEvaluator, error) {
	twitterFriendship := twitterFriendshipEvaluator{}
	err := mapstructure.Decode(data, &twitterFriendship)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	if needParse {
		user, err := factory.twitterEndpoint.GetUser(ctx, twitterFriendship.TargetHandle)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot get twitter user: %v", err)
			return nil, errorx.New(errorx.Unavailable, "Cannot verify twitter user")
		}

		twitterFriendship.TargetHandle = user.Handle
	}

	twitterFriendship.factory = factory
	return &twitterFriendship, nil
}

func (e *twitterFriendshipEvaluator) Evaluate(ctx context.Context, claimant Claimant) (Result, error) {
	account, ok := claimant.Accounts[xcontext.Configs(ctx).Auth.Twitter.Name]
	if !ok {
		return fail("User has not connected to twitter"), nil
	}

	following, err := e.factory.twitterEndpoint.CheckFollowing(ctx, account.Username, e.TargetHandle)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot check following: %v", err)
		return Result{}, errorx.New(errorx.Unavailable, "Invalid twitter response")
	}

	if !following {
		return fail("User has not followed the target"), nil
	}

	result := pass()
	result.UniqueConstraint = "twitter:" + account.ServiceUserID
	return result, nil
}

// Twitter Tweet Evaluator
type twitterTweetEvaluator struct {
	IncludedWords []string `mapstructure:"included_words" structs:"included_words"`

	factory Factory
}

func newTwitterTweetEvaluator(
	ctx context.Context, factory Factory, data map[string]any,
) (*twitterTweetEvaluator, error) {
	twitterTweet := twitterTweetEvaluator{}
	err := mapstructure.Decode(data, &twitterTweet)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	twitterTweet.factory = factory
	return &twitterTweet, nil
}

func (e *twitterTweetEvaluator) Evaluate(ctx context.Context, claimant Claimant) (Result, error) {
	account, ok := claimant.Accounts[xcontext.Configs(ctx).Auth.Twitter.Name]
	if !ok {
		return fail("User has not connected to twitter"), nil
	}

	if claimant.TweetURL == "" {
		return fail("No tweet url provided"), nil
	}

	tw, err := parseTweetURL(claimant.TweetURL)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot parse tweet url: %v", err)
		return fail("Invalid tweet url"), nil
	}

	if tw.UserScreenName != account.Username {
		return fail("The tweet is not yours"), nil
	}

	resp, err := e.factory.twitterEndpoint.GetTweet(ctx, tw.UserScreenName, tw.TweetID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get tweet: %v", err)
		return fail("Not found tweet"), nil
	}

	if resp.Author != tw.UserScreenName {
		return fail("The tweet is not yours"), nil
	}

	for _, word := range e.IncludedWords {
		if !strings.Contains(resp.Text, word) {
			return fail("The tweet doesn't include \"" + word + "\""), nil
		}
	}

	result := pass()
	result.UniqueConstraint = "twitter:" + account.ServiceUserID
	return result, nil
}
