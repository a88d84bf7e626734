package serializer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewError(t *testing.T) {
	a := assert.New(t)
	err := NewError(400, "Bad Request", errors.New("error"))
	a.Error(err)
	a.EqualValues(400, err.Code)

	err.WithError(errors.New("error2"))
	a.Equal("error2", err.RawError.Error())
	a.Equal("Bad Request", err.Error())
	a.Equal("error2", errors.Unwrap(err).Error())
}

func TestDBErr(t *testing.T) {
	a := assert.New(t)
	resp := DBErr("", nil)
	a.NotEmpty(resp.Msg)
	a.Equal(CodeDBError, resp.Code)

	resp = ParamErr("", nil)
	a.NotEmpty(resp.Msg)
	a.Equal(CodeParamErr, resp.Code)
}

func TestErr(t *testing.T) {
	a := assert.New(t)
	err := NewError(CodeFolderNotEmpty, "Folder is not empty.", errors.New("raw"))

	gin.SetMode(gin.TestMode)
	resp := Err(CodeDBError, "", fmt.Errorf("wrapped: %w", err))
	a.Equal(CodeFolderNotEmpty, resp.Code)
	a.Equal("Folder is not empty.", resp.Msg)
	a.Equal("raw", resp.Error)

	// 生产环境隐藏底层错误
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)
	resp = Err(CodeDBError, "db", errors.New("secret"))
	a.Empty(resp.Error)
}

func TestErrorCode(t *testing.T) {
	a := assert.New(t)
	a.Equal(CodeNoFile, ErrorCode(NewError(CodeNoFile, "", nil)))
	a.Equal(CodeNotSet, ErrorCode(errors.New("plain")))
	a.True(IsNotFoundCode(CodeParentNotExist))
	a.True(IsNotFoundCode(CodeFileNotFound))
	a.False(IsNotFoundCode(CodeNoPermissionErr))
}
