package controllers

import (
	"mime"
	"net/http"

	"github.com/edushare/edushare/pkg/hashid"
	"github.com/edushare/edushare/pkg/logging"
	"github.com/edushare/edushare/pkg/serializer"
	"github.com/edushare/edushare/service/explorer"
	"github.com/gin-gonic/gin"
)

const defaultMimeType = "application/octet-stream"

// ListRoot 列出根目录
func ListRoot(c *gin.Context) {
	res, err := explorer.ListRoot(c)
	if err != nil {
		view(c, fail(err))
		return
	}

	view(c, serializer.NewResponse(res, ""))
}

// ListFolder 列出目录内容
func ListFolder(c *gin.Context) {
	res, err := explorer.ListFolder(c)
	if err != nil {
		view(c, fail(err))
		return
	}

	view(c, serializer.NewResponse(res, ""))
}

// CreateFolder 创建目录
func CreateFolder(c *gin.Context) {
	service := ParametersFromContext[*explorer.CreateFolderService](c, explorer.CreateFolderParameterCtx{})
	res, err := service.Create(c)
	if err != nil {
		respond(c, fail(err), back(c, "/"))
		return
	}

	respond(c, serializer.NewResponse(res, "Folder created."), back(c, "/"))
}

// DeleteFolder 删除空目录
func DeleteFolder(c *gin.Context) {
	if err := explorer.DeleteFolder(c); err != nil {
		respond(c, fail(err), back(c, "/"))
		return
	}

	respond(c, serializer.NewResponse(nil, "Folder deleted."), "/")
}

// Upload 上传资料
func Upload(c *gin.Context) {
	service := ParametersFromContext[*explorer.UploadService](c, explorer.UploadParameterCtx{})
	res, err := service.Upload(c)
	if err != nil {
		respond(c, fail(err), back(c, "/"))
		return
	}

	respond(c, serializer.NewResponse(res, "Uploaded!"), back(c, "/"))
}

// Download 以附件形式下载资料文件
func Download(c *gin.Context) {
	res, err := explorer.Download(c)
	if err != nil {
		view(c, fail(err))
		return
	}
	defer res.Content.Close()

	contentType := res.Resource.MimeType
	if contentType == "" {
		contentType = defaultMimeType
	}

	size := res.Resource.Size
	if size <= 0 {
		size = -1
	}

	c.DataFromReader(http.StatusOK, size, contentType, res.Content, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": res.Resource.Filename}),
	})
}

// ResourceDetail 资料详情
func ResourceDetail(c *gin.Context) {
	res, err := explorer.Detail(c)
	if err != nil {
		view(c, fail(err))
		return
	}

	view(c, serializer.NewResponse(res, ""))
}

// DeleteResource 删除资料
func DeleteResource(c *gin.Context) {
	if err := explorer.DeleteResource(c); err != nil {
		respond(c, fail(err), back(c, "/"))
		return
	}

	respond(c, serializer.NewResponse(nil, "Resource deleted."), back(c, "/"))
}

// SubmitReview 提交评价
func SubmitReview(c *gin.Context) {
	service := ParametersFromContext[*explorer.SubmitReviewService](c, explorer.SubmitReviewParameterCtx{})
	next := "/resource/" + c.Param("id")

	res, err := service.Submit(c)
	if err != nil {
		respond(c, fail(err), next)
		return
	}

	logging.FromContext(c).Debug("Review saved for resource %d.", hashid.FromContext(c))
	respond(c, serializer.NewResponse(res, "Review saved."), next)
}

// Search 检索资料
func Search(c *gin.Context) {
	service := ParametersFromContext[*explorer.SearchService](c, explorer.SearchParameterCtx{})
	res, err := service.Search(c)
	if err != nil {
		view(c, fail(err))
		return
	}

	view(c, serializer.NewResponse(res, ""))
}
