package middleware

import (
	"context"

	"github.com/alphalist/backend/pkg/errorx"
	"github.com/alphalist/backend/pkg/xcontext"
)

// MustAuthenticate rejects requests whose identity was not established by
// the authentication layer in front of this service.
func MustAuthenticate() func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if xcontext.RequestUserID(ctx) == "" {
			return errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return nil
	}
}
