package middleware

import (
	"github.com/edushare/edushare/pkg/conf"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Cors 初始化跨域配置, AllowOrigins 未设置时返回 nil
func Cors(config *conf.Cors) gin.HandlerFunc {
	if len(config.AllowOrigins) == 0 || config.AllowOrigins[0] == "UNSET" {
		return nil
	}

	return cors.New(cors.Config{
		AllowOrigins:     config.AllowOrigins,
		AllowMethods:     config.AllowMethods,
		AllowHeaders:     config.AllowHeaders,
		AllowCredentials: config.AllowCredentials,
		ExposeHeaders:    config.ExposeHeaders,
	})
}
