package router

import (
	"context"
	"net/http"

	"github.com/alphalist/backend/config"
	"github.com/alphalist/backend/pkg/logger"
	"github.com/alphalist/backend/pkg/xcontext"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)
type MiddlewareFunc func(ctx context.Context) error

type Router struct {
	Inner gin.IRouter

	cfg    config.Configs
	logger logger.Logger
	db     *gorm.DB
}

func New(cfg config.Configs, logger logger.Logger, db *gorm.DB) *Router {
	return &Router{
		Inner:  gin.New(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r, "GET", handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r, "POST", handler))
}

func (r *Router) Use(middleware MiddlewareFunc) {
	r.Inner.Use(wrapMiddleware(r, middleware))
}

func (r *Router) Group(pattern string) *Router {
	return &Router{
		Inner:  r.Inner.Group(pattern),
		cfg:    r.cfg,
		logger: r.logger,
		db:     r.db,
	}
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}

// requestContext attaches the ambient values and the request identity to the
// request context. The user id comes from the authentication layer in front
// of this service.
func (r *Router) requestContext(ginCtx *gin.Context) context.Context {
	ctx := ginCtx.Request.Context()
	ctx = xcontext.WithConfigs(ctx, r.cfg)
	ctx = xcontext.WithLogger(ctx, r.logger)
	ctx = xcontext.WithDB(ctx, r.db)
	ctx = xcontext.WithRequestUserID(ctx, ginCtx.GetHeader("X-User-Id"))
	ctx = xcontext.WithRequestRemoteAddress(ctx, ginCtx.ClientIP())
	return ctx
}
