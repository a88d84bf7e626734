package serializer

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// AppError 应用错误，实现了error接口
type AppError struct {
	Code     int
	Msg      string
	RawError error
}

// NewError 返回新的错误对象
func NewError(code int, msg string, err error) AppError {
	return AppError{
		Code:     code,
		Msg:      msg,
		RawError: err,
	}
}

// WithError 将应用error携带标准库中的error
func (err *AppError) WithError(raw error) AppError {
	err.RawError = raw
	return *err
}

// Error 返回业务代码确定的可读错误信息
func (err AppError) Error() string {
	return err.Msg
}

func (err AppError) Unwrap() error {
	return err.RawError
}

// 三位数错误编码为复用http原本含义
// 五位数错误编码为应用自定义错误
// 五开头的五位数错误编码为服务器端错误，比如数据库操作失败
// 四开头的五位数错误编码为客户端错误
const (
	// CodeCheckLogin 未登录
	CodeCheckLogin = 401
	// CodeNoPermissionErr 未授权访问
	CodeNoPermissionErr = 403
	// CodeNotFound 资源未找到
	CodeNotFound = 404
	// CodeTooManyRequests 请求过于频繁
	CodeTooManyRequests = 429
	// CodeParamErr 各种奇奇怪怪的参数错误
	CodeParamErr = 40001
	// CodeParentNotExist 目录不存在
	CodeParentNotExist = 40016
	// CodeCredentialInvalid 用户名或密码错误
	CodeCredentialInvalid = 40020
	// CodeFileTypeNotAllowed 扩展名不允许
	CodeFileTypeNotAllowed = 40027
	// CodeDuplicateIdentity 用户名或邮箱已被使用
	CodeDuplicateIdentity = 40032
	// CodeFileNotFound 资源不存在
	CodeFileNotFound = 40049
	// CodeNoFile 未选择文件
	CodeNoFile = 40052
	// CodeFolderNotEmpty 目录非空
	CodeFolderNotEmpty = 40053
	// CodeDBError 数据库操作失败
	CodeDBError = 50001
	// CodeIOFailed IO操作失败
	CodeIOFailed = 50004
	// CodeInternalSetting 内部设置参数错误
	CodeInternalSetting = 50005
	// CodeCacheOperation 缓存操作失败
	CodeCacheOperation = 50006
	// CodeNotSet 未定错误，后续尝试从error中获取
	CodeNotSet = -1
)

// IsNotFoundCode reports whether code belongs to the NotFound family.
func IsNotFoundCode(code int) bool {
	return code == CodeNotFound || code == CodeParentNotExist || code == CodeFileNotFound
}

// IsServerErrorCode reports whether code is a server side failure.
func IsServerErrorCode(code int) bool {
	return code >= 50000
}

// ErrorCode extracts the application code carried by err, or CodeNotSet.
func ErrorCode(err error) int {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeNotSet
}

// CheckLogin 检查登录
func CheckLogin() Response {
	return Response{
		Code: CodeCheckLogin,
		Msg:  "Please log in to access this page.",
	}
}

// DBErr 数据库操作失败
func DBErr(msg string, err error) Response {
	if msg == "" {
		msg = "Database operation failed."
	}
	return Err(CodeDBError, msg, err)
}

// ParamErr 各种参数错误
func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "Invalid parameters."
	}
	return Err(CodeParamErr, msg, err)
}

// Err 通用错误处理
func Err(errCode int, msg string, err error) Response {
	// 底层错误是AppError，则尝试从AppError中获取详细信息
	var appError AppError
	if errors.As(err, &appError) {
		errCode = appError.Code
		err = appError.RawError
		msg = appError.Msg
	}

	res := Response{
		Code: errCode,
		Msg:  msg,
	}
	// 生产环境隐藏底层报错
	if err != nil && gin.Mode() != gin.ReleaseMode {
		res.Error = err.Error()
	}
	return res
}
