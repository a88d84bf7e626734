package filesystem

import (
	"github.com/edushare/edushare/pkg/serializer"
)

var (
	ErrNoFile                  = serializer.NewError(serializer.CodeNoFile, "No file selected.", nil)
	ErrFileExtensionNotAllowed = serializer.NewError(serializer.CodeFileTypeNotAllowed, "File type not allowed.", nil)
	ErrFileSizeTooBig          = serializer.NewError(serializer.CodeParamErr, "File is too large.", nil)
	ErrNameConflict            = serializer.NewError(serializer.CodeIOFailed, "Failed to allocate a unique file name.", nil)
	ErrIO                      = serializer.NewError(serializer.CodeIOFailed, "Failed to process file data.", nil)
	ErrObjectNotExist          = serializer.NewError(serializer.CodeFileNotFound, "Stored file is missing.", nil)
)

// withError returns a copy of base carrying err.
func withError(base serializer.AppError, err error) serializer.AppError {
	base.RawError = err
	return base
}
