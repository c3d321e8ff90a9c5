package twitter

import "context"

type IEndpoint interface {
	GetUser(ctx context.Context, screenName string) (User, error)
	GetTweet(ctx context.Context, screenName, tweetID string) (Tweet, error)
	CheckFollowing(ctx context.Context, sourceScreenName, targetScreenName string) (bool, error)
}
