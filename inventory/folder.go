package inventory

import (
	"context"
	"fmt"

	model "github.com/edushare/edushare/models"
	"github.com/jinzhu/gorm"
	"github.com/samber/lo"
)

type (
	FolderClient interface {
		TxOperator
		// Create inserts a folder, parent ownership must be checked by the caller.
		Create(ctx context.Context, ownerID uint, name string, parentID *uint) (*model.Folder, error)
		// GetByIDAndOwner returns the folder only if it belongs to owner.
		GetByIDAndOwner(ctx context.Context, id int, ownerID uint) (*model.Folder, error)
		// ListChildren lists direct children of parentID, or root folders of owner if parentID is nil.
		ListChildren(ctx context.Context, ownerID uint, parentID *uint) ([]model.Folder, error)
		// CountChildren counts direct child folders.
		CountChildren(ctx context.Context, id uint) (int, error)
		// Breadcrumbs returns the path from the root folder down to folder.
		Breadcrumbs(ctx context.Context, folder *model.Folder) ([]model.Folder, error)
		// Delete removes a single folder row.
		Delete(ctx context.Context, id uint) error
	}
)

func NewFolderClient(client *gorm.DB) FolderClient {
	return &folderClient{client: client}
}

type folderClient struct {
	client *gorm.DB
}

func (c *folderClient) SetClient(newClient *gorm.DB) TxOperator {
	return &folderClient{client: newClient}
}

func (c *folderClient) GetClient() *gorm.DB {
	return c.client
}

func (c *folderClient) Create(ctx context.Context, ownerID uint, name string, parentID *uint) (*model.Folder, error) {
	folder := &model.Folder{
		Name:     name,
		OwnerID:  ownerID,
		ParentID: parentID,
	}

	if err := clientFromCtx(ctx, c.client).Create(folder).Error; err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	return folder, nil
}

func (c *folderClient) GetByIDAndOwner(ctx context.Context, id int, ownerID uint) (*model.Folder, error) {
	folder := &model.Folder{}
	err := clientFromCtx(ctx, c.client).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(folder).Error
	if err != nil {
		return nil, err
	}

	return folder, nil
}

func (c *folderClient) ListChildren(ctx context.Context, ownerID uint, parentID *uint) ([]model.Folder, error) {
	query := clientFromCtx(ctx, c.client).Where("owner_id = ?", ownerID)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var folders []model.Folder
	if err := query.Order("id asc").Find(&folders).Error; err != nil {
		return nil, err
	}

	return folders, nil
}

func (c *folderClient) CountChildren(ctx context.Context, id uint) (int, error) {
	var count int
	err := clientFromCtx(ctx, c.client).Model(&model.Folder{}).Where("parent_id = ?", id).Count(&count).Error
	return count, err
}

func (c *folderClient) Breadcrumbs(ctx context.Context, folder *model.Folder) ([]model.Folder, error) {
	var all []model.Folder
	if err := clientFromCtx(ctx, c.client).Where("owner_id = ?", folder.OwnerID).Find(&all).Error; err != nil {
		return nil, err
	}

	index := lo.KeyBy(all, func(f model.Folder) uint { return f.ID })
	index[folder.ID] = *folder

	return walkToRoot(index, folder.ID), nil
}

// walkToRoot follows parent links starting at id. It stops at a root, at a
// parent missing from index, or when a folder is seen twice.
func walkToRoot(index map[uint]model.Folder, id uint) []model.Folder {
	var (
		path    []model.Folder
		visited = make(map[uint]bool)
	)

	current, ok := index[id]
	for ok && !visited[current.ID] {
		visited[current.ID] = true
		path = append(path, current)
		if current.ParentID == nil {
			break
		}
		current, ok = index[*current.ParentID]
	}

	return lo.Reverse(path)
}

func (c *folderClient) Delete(ctx context.Context, id uint) error {
	return clientFromCtx(ctx, c.client).Where("id = ?", id).Delete(&model.Folder{}).Error
}
