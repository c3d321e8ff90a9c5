package router

import (
	"errors"
	"net/http"

	"github.com/alphalist/backend/pkg/errorx"
	"github.com/gin-gonic/gin"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(ginCtx *gin.Context) {
		var req Request
		var err error
		switch method {
		case "GET":
			err = ginCtx.BindQuery(&req)
		case "POST":
			err = ginCtx.BindJSON(&req)
		default:
			err = errors.New("unsupported method")
		}
		if err != nil {
			ginCtx.JSON(http.StatusBadRequest, newErrorResponse(
				errorx.New(errorx.BadRequest, "Cannot bind the request")))
			return
		}

		resp, err := handler(router.requestContext(ginCtx), &req)
		if err != nil {
			ginCtx.JSON(http.StatusOK, newErrorResponse(err))
		} else {
			ginCtx.JSON(http.StatusOK, newResponse(resp))
		}
	}
}

func wrapMiddleware(router *Router, middleware MiddlewareFunc) gin.HandlerFunc {
	return func(ginCtx *gin.Context) {
		if err := middleware(router.requestContext(ginCtx)); err != nil {
			ginCtx.JSON(http.StatusOK, newErrorResponse(err))
			ginCtx.Abort()
		}
	}
}
