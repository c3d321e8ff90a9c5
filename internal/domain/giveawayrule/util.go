package giveawayrule

import (
	"errors"
	"net/url"
	"strings"
)

type tweetRef struct {
	TweetID        string
	UserScreenName string
}

func parseTweetURL(rawURL string) (tweetRef, error) {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return tweetRef{}, err
	}

	if u.Scheme != "https" {
		return tweetRef{}, errors.New("invalid scheme")
	}

	if u.Host != "twitter.com" && u.Host != "x.com" {
		return tweetRef{}, errors.New("invalid domain")
	}

	// The expected path is <screen_name>/status/<tweet_id>
	parts := strings.Split(strings.TrimLeft(u.Path, "/"), "/")
	if len(parts) != 3 || parts[1] != "status" {
		return tweetRef{}, errors.New("invalid path")
	}

	return tweetRef{TweetID: parts[2], UserScreenName: parts[0]}, nil
}
