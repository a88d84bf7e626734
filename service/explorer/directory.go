package explorer

import (
	"strings"

	"github.com/edushare/edushare/application/dependency"
	"github.com/edushare/edushare/inventory"
	model "github.com/edushare/edushare/models"
	"github.com/edushare/edushare/pkg/hashid"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// ListRoot 列出当前用户的根目录及未归档的资料
func ListRoot(c *gin.Context) (*ListResponse, error) {
	return listFolder(c, nil)
}

// ListFolder 列出路径中目录的子目录及资料, 他人的目录视为不存在
func ListFolder(c *gin.Context) (*ListResponse, error) {
	dep := dependency.FromContext(c)
	u := inventory.UserFromContext(c)

	folder, err := dep.FolderClient().GetByIDAndOwner(c, hashid.FromContext(c), u.ID)
	if err != nil {
		if inventory.IsNotFound(err) {
			return nil, withError(ErrFolderNotFound, err)
		}
		return nil, dbErr("Failed to query folder.", err)
	}

	return listFolder(c, folder)
}

func listFolder(c *gin.Context, folder *model.Folder) (*ListResponse, error) {
	dep := dependency.FromContext(c)
	u := inventory.UserFromContext(c)
	encoder := dep.HashIDEncoder()

	var (
		parent *uint
		res    = &ListResponse{Breadcrumbs: []Folder{}}
	)
	if folder != nil {
		parent = &folder.ID
		current := BuildFolder(folder, encoder)
		res.Current = &current

		crumbs, err := dep.FolderClient().Breadcrumbs(c, folder)
		if err != nil {
			return nil, dbErr("Failed to build breadcrumbs.", err)
		}
		res.Breadcrumbs = BuildFolders(crumbs, encoder)
	}

	folders, err := dep.FolderClient().ListChildren(c, u.ID, parent)
	if err != nil {
		return nil, dbErr("Failed to list folders.", err)
	}

	resources, err := dep.ResourceClient().ListInFolder(c, u.ID, parent)
	if err != nil {
		return nil, dbErr("Failed to list resources.", err)
	}

	summaries, err := dep.ReviewClient().AverageRatings(c, resourceIDs(resources))
	if err != nil {
		return nil, dbErr("Failed to calculate ratings.", err)
	}

	res.Folders = BuildFolders(folders, encoder)
	res.Resources = BuildResources(resources, summaries, u.ID, encoder)
	return res, nil
}

type (
	// CreateFolderService 创建目录服务
	CreateFolderService struct {
		Name string `form:"name" json:"name"`
		// Parent is the hashid of the parent folder, empty for root.
		Parent string `form:"parent_id" json:"parent_id"`
	}
	CreateFolderParameterCtx struct{}
)

// Create 创建目录, 父目录必须属于当前用户
func (service *CreateFolderService) Create(c *gin.Context) (*Folder, error) {
	dep := dependency.FromContext(c)
	u := inventory.UserFromContext(c)

	name := strings.TrimSpace(service.Name)
	if name == "" {
		return nil, ErrFolderNameEmpty
	}

	parent, err := ownedFolder(c, service.Parent)
	if err != nil {
		return nil, err
	}

	folder, err := dep.FolderClient().Create(c, u.ID, name, parent)
	if err != nil {
		return nil, dbErr("Failed to create folder.", err)
	}

	res := BuildFolder(folder, dep.HashIDEncoder())
	return &res, nil
}

// DeleteFolder 删除空目录
func DeleteFolder(c *gin.Context) error {
	dep := dependency.FromContext(c)
	u := inventory.UserFromContext(c)

	fc, tx, ctx, err := inventory.WithTx(c, dep.FolderClient())
	if err != nil {
		return dbErr("Failed to start transaction.", err)
	}

	folder, err := fc.GetByIDAndOwner(ctx, hashid.FromContext(c), u.ID)
	if err != nil {
		_ = inventory.Rollback(tx)
		if inventory.IsNotFound(err) {
			return withError(ErrFolderNotFound, err)
		}
		return dbErr("Failed to query folder.", err)
	}

	children, err := fc.CountChildren(ctx, folder.ID)
	if err != nil {
		_ = inventory.Rollback(tx)
		return dbErr("Failed to count child folders.", err)
	}

	resources, err := dep.ResourceClient().CountInFolder(ctx, folder.ID)
	if err != nil {
		_ = inventory.Rollback(tx)
		return dbErr("Failed to count resources.", err)
	}

	if children > 0 || resources > 0 {
		_ = inventory.Rollback(tx)
		return ErrFolderNotEmpty
	}

	if err := fc.Delete(ctx, folder.ID); err != nil {
		_ = inventory.Rollback(tx)
		return dbErr("Failed to delete folder.", err)
	}

	if err := inventory.Commit(tx); err != nil {
		return dbErr("Failed to commit transaction.", err)
	}

	return nil
}

// ownedFolder decodes a folder hashid and checks that the current user owns
// it. An empty raw ID means root and yields nil.
func ownedFolder(c *gin.Context, raw string) (*uint, error) {
	if raw == "" {
		return nil, nil
	}

	dep := dependency.FromContext(c)
	id, err := dep.HashIDEncoder().Decode(raw, hashid.FolderID)
	if err != nil {
		return nil, withError(ErrFolderNotFound, err)
	}

	folder, err := dep.FolderClient().GetByIDAndOwner(c, id, inventory.UserFromContext(c).ID)
	if err != nil {
		if inventory.IsNotFound(err) {
			return nil, withError(ErrFolderNotFound, err)
		}
		return nil, dbErr("Failed to query folder.", err)
	}

	return &folder.ID, nil
}

func resourceIDs(resources []model.Resource) []uint {
	return lo.Map(resources, func(r model.Resource, _ int) uint {
		return r.ID
	})
}
