package driver

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrObjectExisted is returned by Put when dst is already taken.
	ErrObjectExisted = errors.New("object already exists")
	// ErrObjectNotExist is returned by Get when the object is missing.
	ErrObjectNotExist = errors.New("object not exist")
)

// Object is a stored blob seen by List.
type Object struct {
	Name       string
	Size       int64
	LastModify time.Time
}

// Handler 存储策略适配器
type Handler interface {
	// Put 上传文件, dst 为存储名, 已存在时返回 ErrObjectExisted 且不覆盖
	Put(ctx context.Context, file io.Reader, dst string, size int64) error

	// Get 获取文件内容, 调用方负责关闭
	Get(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete 删除一个或多个文件，返回删除失败的文件及遇到的最后一个错误,
	// 不存在的文件视为删除成功
	Delete(ctx context.Context, names ...string) ([]string, error)

	// List 列出所有已存储对象
	List(ctx context.Context) ([]Object, error)
}
