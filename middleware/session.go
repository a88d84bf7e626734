package middleware

import (
	"net/http"

	"github.com/edushare/edushare/application/dependency"
	"github.com/edushare/edushare/pkg/sessionstore"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const sessionMaxAge = 7 * 86400

// Session 初始化session, 会话数据保存在KV存储中
func Session(dep dependency.Dep) gin.HandlerFunc {
	config := dep.ConfigProvider()
	store := sessionstore.NewStore(dep.KV(), []byte(config.System().SessionSecret))

	sameSiteMode := http.SameSiteDefaultMode
	switch config.Cors().SameSite {
	case "None":
		sameSiteMode = http.SameSiteNoneMode
	case "Strict":
		sameSiteMode = http.SameSiteStrictMode
	case "Lax":
		sameSiteMode = http.SameSiteLaxMode
	}

	store.Options(sessions.Options{
		HttpOnly: true,
		MaxAge:   sessionMaxAge,
		Path:     "/",
		SameSite: sameSiteMode,
		Secure:   config.Cors().Secure,
	})

	return sessions.Sessions(sessionstore.SessionName, store)
}
