package user

import (
	"github.com/edushare/edushare/application/constants"
	"github.com/edushare/edushare/application/dependency"
	"github.com/edushare/edushare/inventory"
	"github.com/edushare/edushare/pkg/serializer"
	"github.com/edushare/edushare/pkg/util"
	"github.com/gin-gonic/gin"
)

type (
	// UserLoginService 管理用户登录的服务
	UserLoginService struct {
		Username string `form:"username" json:"username" binding:"required"`
		Password string `form:"password" json:"password" binding:"required"`
	}
	LoginParameterCtx struct{}
)

var ErrInvalidCredentials = serializer.NewError(serializer.CodeCredentialInvalid, "Invalid username or password.", nil)

// Login 用户登录, 未知用户与密码错误返回相同的错误
func (service *UserLoginService) Login(c *gin.Context) (*User, error) {
	dep := dependency.FromContext(c)
	u, err := dep.UserClient().GetByUsername(c, service.Username)
	if err != nil {
		if inventory.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, serializer.NewError(serializer.CodeDBError, "Failed to query user.", err)
	}

	if err := inventory.CheckPassword(u, service.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	util.SetSession(c, map[string]interface{}{
		constants.SessionUserID: u.ID,
	})

	res := BuildUser(u, dep.HashIDEncoder())
	return &res, nil
}

// Logout 清空会话
func Logout(c *gin.Context) {
	util.ClearSession(c)
}

// Me 返回当前登录用户
func Me(c *gin.Context) *User {
	dep := dependency.FromContext(c)
	res := BuildUser(inventory.UserFromContext(c), dep.HashIDEncoder())
	return &res
}
