package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/edushare/edushare/application/constants"
	"github.com/edushare/edushare/application/dependency"
	"github.com/edushare/edushare/pkg/hashid"
	"github.com/edushare/edushare/pkg/logging"
	"github.com/edushare/edushare/pkg/serializer"
	"github.com/edushare/edushare/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

// HashID 将给定对象的HashID转换为真实ID, 类型不符或无法解析时视为不存在
func HashID(IDType int) gin.HandlerFunc {
	return func(c *gin.Context) {
		dep := dependency.FromContext(c)
		if c.Param("id") != "" {
			id, err := dep.HashIDEncoder().Decode(c.Param("id"), IDType)
			if err == nil {
				util.WithValue(c, hashid.ObjectIDCtx{}, id)
				c.Next()
				return
			}

			abort(c, serializer.Err(serializer.CodeNotFound, "Not found.", err), "/")
			return
		}
		c.Next()
	}
}

// CacheControl 屏蔽客户端缓存
func CacheControl() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "private, no-cache")
	}
}

// InitializeHandling is added at the beginning of handler chain, it did following setups:
// 1. Inject dependency manager into request context
// 2. Generate and inject correlation ID for diagnostic.
func InitializeHandling(dep dependency.Dep) gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := uuid.FromStringOrNil(c.GetHeader(constants.CorrelationHeader))
		if cid == uuid.Nil {
			cid = uuid.Must(uuid.NewV4())
		}

		l := dep.Logger().CopyWithPrefix(fmt.Sprintf("[Cid: %s]", cid))
		ctx := dep.ForkWithLogger(c.Request.Context(), l)
		ctx = context.WithValue(ctx, logging.CorrelationIDCtx{}, cid)
		ctx = context.WithValue(ctx, logging.LoggerCtx{}, l)
		c.Request = c.Request.WithContext(ctx)
		c.Header(constants.CorrelationHeader, cid.String())

		c.Next()
	}
}

// Logging logs incoming request info
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Start timer
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Process request
		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		l := logging.FromContext(c)
		logging.Request(l, c.Writer.Status(), c.Request.Method, c.ClientIP(), path,
			c.Errors.ByType(gin.ErrorTypePrivate).String(), start)
	}
}

// abort stops the chain with res. Browsers get a flash notice and are sent
// to redirect, API clients get the JSON response.
func abort(c *gin.Context, res serializer.Response, redirect string) {
	if util.WantsHTML(c) {
		util.AddFlash(c, serializer.NoticeFromResponse(res))
		c.Redirect(http.StatusSeeOther, redirect)
		c.Abort()
		return
	}

	c.JSON(200, res)
	c.Abort()
}
