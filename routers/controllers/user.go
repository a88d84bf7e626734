package controllers

import (
	"github.com/edushare/edushare/pkg/serializer"
	"github.com/edushare/edushare/service/user"
	"github.com/gin-gonic/gin"
)

// UserRegisterPage 注册页, 仅返回待显示的通知
func UserRegisterPage(c *gin.Context) {
	view(c, serializer.NewResponse(nil, ""))
}

// UserRegister 用户注册
func UserRegister(c *gin.Context) {
	service := ParametersFromContext[*user.UserRegisterService](c, user.RegisterParameterCtx{})
	u, err := service.Register(c)
	if err != nil {
		respond(c, fail(err), "/register")
		return
	}

	respond(c, serializer.NewResponse(u, "Account created! Please log in."), "/login")
}

// UserLoginPage 登录页
func UserLoginPage(c *gin.Context) {
	view(c, serializer.NewResponse(nil, ""))
}

// UserLogin 用户登录
func UserLogin(c *gin.Context) {
	service := ParametersFromContext[*user.UserLoginService](c, user.LoginParameterCtx{})
	u, err := service.Login(c)
	if err != nil {
		respond(c, fail(err), "/login")
		return
	}

	respond(c, serializer.NewResponse(u, "Welcome back!"), "/")
}

// UserLogout 用户退出登录
func UserLogout(c *gin.Context) {
	user.Logout(c)
	respond(c, serializer.NewResponse(nil, "Logged out."), "/login")
}

// UserMe 获取当前登录的用户
func UserMe(c *gin.Context) {
	view(c, serializer.NewResponse(user.Me(c), ""))
}
