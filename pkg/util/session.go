package util

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SetSession 设置session
func SetSession(c *gin.Context, list map[string]interface{}) {
	s := sessions.Default(c)
	for key, value := range list {
		s.Set(key, value)
	}
	s.Save()
}

// GetSession 获取session
func GetSession(c *gin.Context, key string) interface{} {
	s := sessions.Default(c)
	return s.Get(key)
}

// ClearSession 清空session
func ClearSession(c *gin.Context) {
	s := sessions.Default(c)
	s.Clear()
	s.Save()
}

// AddFlash queues a one-shot notice for the next view of this session.
func AddFlash(c *gin.Context, value interface{}) {
	s := sessions.Default(c)
	s.AddFlash(value)
	s.Save()
}

// PopFlashes returns and clears all queued notices.
func PopFlashes(c *gin.Context) []interface{} {
	s := sessions.Default(c)
	flashes := s.Flashes()
	if len(flashes) > 0 {
		s.Save()
	}
	return flashes
}

// WantsHTML reports whether the client is a browser expecting pages rather than JSON.
func WantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
