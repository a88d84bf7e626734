package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/edushare/edushare/pkg/filesystem/driver"
	"github.com/edushare/edushare/pkg/logging"
	"github.com/edushare/edushare/pkg/util"
)

const (
	Perm = 0744
)

// Driver 本地策略适配器, 所有文件平铺在 Root 目录下
type Driver struct {
	Root string
	l    logging.Logger
}

// New creates a local driver rooted at root, relative paths are resolved
// against the executable.
func New(root string, l logging.Logger) *Driver {
	return &Driver{
		Root: util.RelativePath(root),
		l:    l,
	}
}

func (handler *Driver) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("illegal object name %q", name)
	}
	return filepath.Join(handler.Root, name), nil
}

// Put 将文件流保存到存储目录
func (handler *Driver) Put(ctx context.Context, file io.Reader, dst string, size int64) error {
	dstPath, err := handler.path(dst)
	if err != nil {
		return err
	}

	if err := util.CreatNestedFolder(handler.Root); err != nil {
		return fmt.Errorf("failed to create storage folder: %w", err)
	}

	out, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, Perm)
	if err != nil {
		if os.IsExist(err) {
			return driver.ErrObjectExisted
		}
		return fmt.Errorf("failed to create file: %w", err)
	}

	_, err = io.Copy(out, file)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		// 清理写入一半的文件
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Get 获取文件内容
func (handler *Driver) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	p, err := handler.path(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, driver.ErrObjectNotExist
		}
		handler.l.Debug("Failed to open file: %s", err)
		return nil, err
	}

	return file, nil
}

// Delete 删除一个或多个文件，返回未删除的文件，及遇到的最后一个错误
func (handler *Driver) Delete(ctx context.Context, names ...string) ([]string, error) {
	deleteFailed := make([]string, 0, len(names))
	var retErr error

	for _, name := range names {
		p, err := handler.path(name)
		if err == nil {
			err = os.Remove(p)
		}

		if err != nil && !errors.Is(err, os.ErrNotExist) {
			handler.l.Warning("Failed to delete file %q: %s", name, err)
			retErr = err
			deleteFailed = append(deleteFailed, name)
		}
	}

	return deleteFailed, retErr
}

// List 列出存储目录下所有文件
func (handler *Driver) List(ctx context.Context) ([]driver.Object, error) {
	entries, err := os.ReadDir(handler.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list storage folder: %w", err)
	}

	res := make([]driver.Object, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		res = append(res, driver.Object{
			Name:       entry.Name(),
			Size:       info.Size(),
			LastModify: info.ModTime(),
		})
	}

	return res, nil
}
