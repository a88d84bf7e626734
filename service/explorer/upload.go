package explorer

import (
	"errors"
	"net/http"
	"strings"

	"github.com/edushare/edushare/application/dependency"
	"github.com/edushare/edushare/inventory"
	model "github.com/edushare/edushare/models"
	"github.com/edushare/edushare/pkg/filesystem"
	"github.com/edushare/edushare/pkg/logging"
	"github.com/gin-gonic/gin"
)

const (
	defaultTitle  = "Untitled"
	fileFormField = "file"
)

type (
	// UploadService 上传资料服务, 文件本身从 multipart 的 file 字段读取
	UploadService struct {
		Title       string `form:"title"`
		Author      string `form:"author"`
		Subject     string `form:"subject"`
		Description string `form:"description"`
		Folder      string `form:"folder_id"`
	}
	UploadParameterCtx struct{}
)

// Upload 保存上传的文件并创建资料记录
func (service *UploadService) Upload(c *gin.Context) (*Resource, error) {
	dep := dependency.FromContext(c)
	l := logging.FromContext(c)
	u := inventory.UserFromContext(c)
	fs := dep.FileSystem()

	header, err := c.FormFile(fileFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, filesystem.ErrNoFile
		}
		return nil, withError(filesystem.ErrNoFile, err)
	}

	if err := fs.ValidateUpload(header.Filename, header.Size); err != nil {
		return nil, err
	}

	folder, err := ownedFolder(c, service.Folder)
	if err != nil {
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, withError(filesystem.ErrIO, err)
	}
	defer file.Close()

	name, err := fs.Save(c, file, header.Filename, header.Size)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(service.Title)
	if title == "" {
		title = defaultTitle
	}

	resource := &model.Resource{
		Title:       title,
		Author:      strings.TrimSpace(service.Author),
		Subject:     strings.TrimSpace(service.Subject),
		Description: strings.TrimSpace(service.Description),
		Filename:    name,
		MimeType:    header.Header.Get("Content-Type"),
		Size:        header.Size,
		UploaderID:  u.ID,
		FolderID:    folder,
	}
	if err := dep.ResourceClient().Create(c, resource); err != nil {
		if _, rmErr := fs.Remove(c, name); rmErr != nil {
			l.Warning("Failed to remove stored file %q after failed insert: %s", name, rmErr)
		}
		return nil, dbErr("Failed to create resource.", err)
	}

	l.Info("User %d uploaded %q as %q.", u.ID, header.Filename, name)
	res := BuildResource(resource, nil, u.ID, dep.HashIDEncoder())
	return &res, nil
}
