package explorer

import (
	"io"

	"github.com/edushare/edushare/application/dependency"
	"github.com/edushare/edushare/inventory"
	model "github.com/edushare/edushare/models"
	"github.com/edushare/edushare/pkg/hashid"
	"github.com/edushare/edushare/pkg/logging"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// DownloadResult carries the stored blob of a resource, the caller must close Content.
type DownloadResult struct {
	Resource *model.Resource
	Content  io.ReadCloser
}

// Download 打开资料对应的文件, 任何已登录用户均可下载
func Download(c *gin.Context) (*DownloadResult, error) {
	dep := dependency.FromContext(c)
	resource, err := getResource(c)
	if err != nil {
		return nil, err
	}

	rc, err := dep.FileSystem().Open(c, resource.Filename)
	if err != nil {
		return nil, err
	}

	return &DownloadResult{Resource: resource, Content: rc}, nil
}

// Detail 资料详情, 包括评价及平均分
func Detail(c *gin.Context) (*ResourceDetail, error) {
	dep := dependency.FromContext(c)
	u := inventory.UserFromContext(c)
	encoder := dep.HashIDEncoder()

	resource, err := getResource(c)
	if err != nil {
		return nil, err
	}

	reviews, err := dep.ReviewClient().ListByResource(c, resource.ID)
	if err != nil {
		return nil, dbErr("Failed to list reviews.", err)
	}

	summaries, err := dep.ReviewClient().AverageRatings(c, []uint{resource.ID})
	if err != nil {
		return nil, dbErr("Failed to calculate ratings.", err)
	}

	var summary *inventory.RatingSummary
	if s, ok := summaries[resource.ID]; ok {
		summary = &s
	}

	res := &ResourceDetail{
		Resource: BuildResource(resource, summary, u.ID, encoder),
		Reviews: lo.Map(reviews, func(r inventory.ReviewWithAuthor, _ int) Review {
			return BuildReview(&r.Review, r.Username, encoder)
		}),
	}

	if uploader, err := dep.UserClient().GetByID(c, int(resource.UploaderID)); err == nil {
		res.UploaderName = uploader.Username
	}

	return res, nil
}

// DeleteResource 删除资料, 仅上传者可操作. 存储中的文件删除失败只记录日志
func DeleteResource(c *gin.Context) error {
	dep := dependency.FromContext(c)
	l := logging.FromContext(c)
	u := inventory.UserFromContext(c)

	resource, err := getResource(c)
	if err != nil {
		return err
	}

	if resource.UploaderID != u.ID {
		return ErrNotUploader
	}

	rc, tx, ctx, err := inventory.WithTx(c, dep.ResourceClient())
	if err != nil {
		return dbErr("Failed to start transaction.", err)
	}

	if err := rc.Delete(ctx, resource.ID); err != nil {
		_ = inventory.Rollback(tx)
		return dbErr("Failed to delete resource.", err)
	}

	if err := inventory.Commit(tx); err != nil {
		return dbErr("Failed to commit transaction.", err)
	}

	if _, err := dep.FileSystem().Remove(c, resource.Filename); err != nil {
		l.Warning("Failed to remove stored file %q of deleted resource %d: %s", resource.Filename, resource.ID, err)
	}

	return nil
}

// getResource loads the resource addressed by the request path.
func getResource(c *gin.Context) (*model.Resource, error) {
	dep := dependency.FromContext(c)
	resource, err := dep.ResourceClient().GetByID(c, hashid.FromContext(c))
	if err != nil {
		if inventory.IsNotFound(err) {
			return nil, withError(ErrResourceNotFound, err)
		}
		return nil, dbErr("Failed to query resource.", err)
	}

	return resource, nil
}
