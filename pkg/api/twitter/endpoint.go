package twitter

import (
	"context"
	"errors"

	"github.com/alphalist/backend/config"
	"github.com/alphalist/backend/pkg/api"
)

const apiURL = "https://api.twitter.com"

type Endpoint struct {
	appAccessToken string

	apiGenerator api.Generator
}

func New(cfg config.TwitterConfigs) *Endpoint {
	return &Endpoint{
		appAccessToken: cfg.AppAccessToken,
		apiGenerator:   api.NewGenerator(),
	}
}

func (e *Endpoint) GetUser(ctx context.Context, screenName string) (User, error) {
	resp, err := e.apiGenerator.New(apiURL, "/1.1/users/show.json").
		Query(api.Parameter{"screen_name": screenName}).
		GET(ctx, api.OAuth2("Bearer", e.appAccessToken))
	if err != nil {
		return User{}, err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return User{}, errors.New("invalid response")
	}

	name, err := body.GetString("name")
	if err != nil {
		return User{}, err
	}

	handle, err := body.GetString("screen_name")
	if err != nil {
		return User{}, err
	}

	photoURL, err := body.GetString("profile_image_url_https")
	if err != nil {
		return User{}, err
	}

	return User{Name: name, Handle: handle, PhotoURL: photoURL}, nil
}

func (e *Endpoint) GetTweet(ctx context.Context, screenName, tweetID string) (Tweet, error) {
	resp, err := e.apiGenerator.New(apiURL, "/1.1/statuses/show.json").
		Query(api.Parameter{"id": tweetID}).
		GET(ctx, api.OAuth2("Bearer", e.appAccessToken))
	if err != nil {
		return Tweet{}, err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return Tweet{}, errors.New("invalid response")
	}

	author, err := body.GetString("user.screen_name")
	if err != nil {
		return Tweet{}, err
	}

	text, err := body.GetString("text")
	if err != nil {
		return Tweet{}, err
	}

	return Tweet{ID: tweetID, Author: author, Text: text}, nil
}

func (e *Endpoint) CheckFollowing(
	ctx context.Context, sourceScreenName, targetScreenName string,
) (bool, error) {
	resp, err := e.apiGenerator.New(apiURL, "/1.1/friendships/show.json").
		Query(api.Parameter{
			"source_screen_name": sourceScreenName,
			"target_screen_name": targetScreenName,
		}).
		GET(ctx, api.OAuth2("Bearer", e.appAccessToken))
	if err != nil {
		return false, err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return false, errors.New("invalid response")
	}

	return body.GetBool("relationship.source.following")
}
