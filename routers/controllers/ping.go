package controllers

import (
	"github.com/edushare/edushare/application/constants"
	"github.com/edushare/edushare/pkg/serializer"
	"github.com/gin-gonic/gin"
)

// Ping 状态检查页面
func Ping(c *gin.Context) {
	version := constants.BackendVersion
	if gin.Mode() != gin.ReleaseMode {
		version = version + "-" + constants.LastCommit
	}

	c.JSON(200, serializer.Response{
		Code: 0,
		Data: version,
	})
}
