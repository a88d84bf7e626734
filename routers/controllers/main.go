package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/edushare/edushare/pkg/serializer"
	"github.com/edushare/edushare/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// ParamErrorMsg 根据Validator返回的错误信息给出错误提示
func ParamErrorMsg(filed string, tag string) string {
	// 未通过验证的表单域
	fieldMap := map[string]string{
		"Username": "Username",
		"Email":    "Email",
		"Password": "Password",
		"Name":     "Folder name",
		"Rating":   "Rating",
	}
	// 未通过的规则
	tagMap := map[string]string{
		"required": "is required.",
		"min":      "is too short.",
		"max":      "is too long.",
		"email":    "is not a valid address.",
	}
	fieldVal, findField := fieldMap[filed]
	tagVal, findTag := tagMap[tag]
	if findField && findTag {
		// 返回拼接出来的错误信息
		return fieldVal + " " + tagVal
	}
	return ""
}

// ErrorResponse 返回错误消息
func ErrorResponse(err error) serializer.Response {
	// 处理 Validator 产生的错误
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, e := range ve {
			return serializer.ParamErr(
				ParamErrorMsg(e.Field(), e.Tag()),
				err,
			)
		}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return serializer.ParamErr("Mismatched JSON type.", err)
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return serializer.ParamErr("Expected a number.", err)
	}

	return serializer.ParamErr("Invalid parameters.", err)
}

// FromForm binds the request form (or JSON body) into T and stores it under ctxKey.
func FromForm[T any](ctxKey any) gin.HandlerFunc {
	return fromRequest[T](ctxKey, binding.Form)
}

// FromQuery binds query parameters into T and stores it under ctxKey.
func FromQuery[T any](ctxKey any) gin.HandlerFunc {
	return fromRequest[T](ctxKey, binding.Query)
}

func fromRequest[T any](ctxKey any, b binding.Binding) gin.HandlerFunc {
	return func(c *gin.Context) {
		var service T
		var err error
		if b == binding.Form && c.ContentType() == binding.MIMEJSON {
			err = c.ShouldBindJSON(&service)
		} else {
			err = c.ShouldBindWith(&service, b)
		}

		if err != nil {
			respond(c, ErrorResponse(err), back(c, "/"))
			c.Abort()
			return
		}

		util.WithValue(c, ctxKey, &service)
		c.Next()
	}
}

// ParametersFromContext retrieves request parameters bound by FromForm/FromQuery.
func ParametersFromContext[T any](c *gin.Context, ctxKey any) T {
	return c.Value(ctxKey).(T)
}

// respond 输出操作结果. 浏览器请求时结果以通知形式存入会话并重定向到 next,
// 服务端错误仍以 JSON 返回.
func respond(c *gin.Context, res serializer.Response, next string) {
	if !util.WantsHTML(c) {
		c.JSON(http.StatusOK, res)
		return
	}

	if serializer.IsServerErrorCode(res.Code) {
		c.JSON(http.StatusInternalServerError, res)
		return
	}

	util.AddFlash(c, serializer.NoticeFromResponse(res))
	c.Redirect(http.StatusSeeOther, next)
}

// view 输出页面数据, 附带并清空待显示的通知
func view(c *gin.Context, res serializer.Response) {
	res.Notices = lo.FilterMap(util.PopFlashes(c), func(v interface{}, _ int) (serializer.Notice, bool) {
		n, ok := v.(serializer.Notice)
		return n, ok
	})

	status := http.StatusOK
	if util.WantsHTML(c) && serializer.IsServerErrorCode(res.Code) {
		status = http.StatusInternalServerError
	}
	c.JSON(status, res)
}

// fail converts a service error into a response.
func fail(err error) serializer.Response {
	return serializer.Err(serializer.CodeNotSet, err.Error(), err)
}

// back returns the page the request came from, or fallback.
func back(c *gin.Context, fallback string) string {
	if ref := c.Request.Referer(); ref != "" {
		return ref
	}
	return fallback
}
