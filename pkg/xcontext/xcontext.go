package xcontext

import (
	"context"
	"net/http"

	"github.com/alphalist/backend/config"
	"github.com/alphalist/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey       struct{}
	loggerKey        struct{}
	dbKey            struct{}
	dbTxKey          struct{}
	httpClientKey    struct{}
	requestUserKey   struct{}
	remoteAddressKey struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		return config.Configs{}
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		return logger.NewLogger(logger.SILENCE)
	}

	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the transaction if one was opened with WithDBTransaction,
// otherwise the root database handle.
func DB(ctx context.Context) *gorm.DB {
	if state, ok := ctx.Value(dbTxKey{}).(*txState); ok && !state.done {
		return state.tx
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("no database in context")
	}

	return db
}

type txState struct {
	tx   *gorm.DB
	done bool
}

// WithDBTransaction begins a transaction and makes DB(ctx) return it until
// the transaction is committed or rolled back.
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, dbTxKey{}, &txState{tx: DB(ctx).Begin()})
}

// WithCommitDBTransaction commits the current transaction. It is a no-op if
// no transaction is open.
func WithCommitDBTransaction(ctx context.Context) context.Context {
	if state, ok := ctx.Value(dbTxKey{}).(*txState); ok && !state.done {
		state.tx.Commit()
		state.done = true
	}

	return ctx
}

// WithRollbackDBTransaction rollbacks the current transaction. It is a no-op
// after a commit, so it is safe to defer unconditionally.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	if state, ok := ctx.Value(dbTxKey{}).(*txState); ok && !state.done {
		state.tx.Rollback()
		state.done = true
	}

	return ctx
}

func WithHTTPClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, httpClientKey{}, client)
}

func HTTPClient(ctx context.Context) *http.Client {
	client, ok := ctx.Value(httpClientKey{}).(*http.Client)
	if !ok {
		return http.DefaultClient
	}

	return client
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestUserKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	id, ok := ctx.Value(requestUserKey{}).(string)
	if !ok {
		return ""
	}

	return id
}

func WithRequestRemoteAddress(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, remoteAddressKey{}, addr)
}

func RequestRemoteAddress(ctx context.Context) string {
	addr, ok := ctx.Value(remoteAddressKey{}).(string)
	if !ok {
		return ""
	}

	return addr
}
