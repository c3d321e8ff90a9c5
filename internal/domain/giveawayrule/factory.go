package giveawayrule

import (
	"context"
	"fmt"

	"github.com/alphalist/backend/internal/entity"
	"github.com/alphalist/backend/pkg/api/discord"
	"github.com/alphalist/backend/pkg/api/twitter"
	"github.com/alphalist/backend/pkg/blockchain"
)

type Factory struct {
	discordEndpoint discord.IEndpoint
	twitterEndpoint twitter.IEndpoint
	chainIndexer    blockchain.Indexer
}

func NewFactory(
	discordEndpoint discord.IEndpoint,
	twitterEndpoint twitter.IEndpoint,
	chainIndexer blockchain.Indexer,
) Factory {
	return Factory{
		discordEndpoint: discordEndpoint,
		twitterEndpoint: twitterEndpoint,
		chainIndexer:    chainIndexer,
	}
}

// NewEvaluator builds the evaluator for one rule. Set needParse when the
// rule comes from client input rather than from the database, to validate
// the payload before it is stored.
func (f Factory) NewEvaluator(
	ctx context.Context, rule entity.Rule, needParse bool,
) (Evaluator, error) {
	var evaluator Evaluator
	var err error
	switch rule.Type {
	case entity.MinimumBalanceRule:
		evaluator, err = newMinimumBalanceEvaluator(ctx, f, rule.Data, needParse)

	case entity.OwnNFTRule:
		evaluator, err = newOwnNFTEvaluator(ctx, f, rule.Data, needParse)

	case entity.DiscordRoleRule:
		evaluator, err = newDiscordRoleEvaluator(ctx, f, rule.Data, needParse)

	case entity.DiscordGuildRule:
		evaluator, err = newDiscordGuildEvaluator(ctx, f, rule.Data, needParse)

	case entity.TwitterFriendshipRule:
		evaluator, err = newTwitterFriendshipEvaluator(ctx, f, rule.Data, needParse)

	case entity.TwitterTweetRule:
		evaluator, err = newTwitterTweetEvaluator(ctx, f, rule.Data)

	default:
		return nil, fmt.Errorf("invalid rule type %s", rule.Type)
	}

	if err != nil {
		return nil, err
	}

	return evaluator, nil
}
