package middleware

import (
	"github.com/edushare/edushare/application/constants"
	"github.com/edushare/edushare/application/dependency"
	"github.com/edushare/edushare/inventory"
	"github.com/edushare/edushare/pkg/logging"
	"github.com/edushare/edushare/pkg/serializer"
	"github.com/edushare/edushare/pkg/util"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// LoginPath is where browsers without a session are sent.
const LoginPath = "/login"

// CurrentUser 获取登录用户
func CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		uid, ok := session.Get(constants.SessionUserID).(uint)
		if ok {
			dep := dependency.FromContext(c)
			user, err := dep.UserClient().GetByID(c, int(uid))
			if err == nil {
				util.WithValue(c, inventory.UserCtx{}, user)
			} else if !inventory.IsNotFound(err) {
				logging.FromContext(c).Warning("Failed to load session user %d: %s", uid, err)
			}
		}
		c.Next()
	}
}

// LoginRequired 需要登录
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if inventory.UserFromContext(c) != nil {
			c.Next()
			return
		}

		abort(c, serializer.CheckLogin(), LoginPath)
	}
}
