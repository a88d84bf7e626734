package filesystem

import (
	"github.com/edushare/edushare/pkg/util"
)

// ValidateUpload checks an incoming file against the upload policy.
func (fs *FileSystem) ValidateUpload(name string, size int64) error {
	if name == "" {
		return ErrNoFile
	}

	if !fs.ValidateExtension(name) {
		return ErrFileExtensionNotAllowed
	}

	if !fs.ValidateFileSize(size) {
		return ErrFileSizeTooBig
	}

	return nil
}

// ValidateExtension 验证文件扩展名
func (fs *FileSystem) ValidateExtension(fileName string) bool {
	return util.IsInExtensionList(fs.policy.AllowedExtensions, fileName)
}

// ValidateFileSize 验证上传的文件大小是否超出限制, 0 为不限制
func (fs *FileSystem) ValidateFileSize(size int64) bool {
	return fs.policy.MaxSize == 0 || size <= fs.policy.MaxSize
}
