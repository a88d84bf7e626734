package explorer

import "github.com/edushare/edushare/pkg/serializer"

var (
	ErrFolderNotFound   = serializer.NewError(serializer.CodeParentNotExist, "Folder not found.", nil)
	ErrResourceNotFound = serializer.NewError(serializer.CodeFileNotFound, "Resource not found.", nil)
	ErrFolderNotEmpty   = serializer.NewError(serializer.CodeFolderNotEmpty, "Folder is not empty.", nil)
	ErrNotUploader      = serializer.NewError(serializer.CodeNoPermissionErr, "Only the uploader can delete this resource.", nil)
	ErrFolderNameEmpty  = serializer.NewError(serializer.CodeParamErr, "Folder name is required.", nil)
)

// withError returns a copy of base carrying err.
func withError(base serializer.AppError, err error) serializer.AppError {
	base.RawError = err
	return base
}

func dbErr(msg string, err error) serializer.AppError {
	return serializer.NewError(serializer.CodeDBError, msg, err)
}
