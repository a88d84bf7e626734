package inventory

import (
	"context"
	"fmt"
	"strings"

	model "github.com/edushare/edushare/models"
	"github.com/edushare/edushare/pkg/util"
	"github.com/jinzhu/gorm"
	"github.com/samber/lo"
)

const filenameQueryChunk = 500

type (
	ResourceClient interface {
		TxOperator
		// Create inserts resource metadata.
		Create(ctx context.Context, resource *model.Resource) error
		// GetByID returns a resource regardless of its uploader.
		GetByID(ctx context.Context, id int) (*model.Resource, error)
		// ListInFolder lists resources directly under folderID, or the uploader's
		// unfiled resources if folderID is nil.
		ListInFolder(ctx context.Context, uploaderID uint, folderID *uint) ([]model.Resource, error)
		// CountInFolder counts resources placed directly in the folder.
		CountInFolder(ctx context.Context, folderID uint) (int, error)
		// Delete removes the resource row and all of its reviews.
		Delete(ctx context.Context, id uint) error
		// Search filters the catalog by case-insensitive substrings, ordered by ID.
		Search(ctx context.Context, args *SearchArgs) ([]model.Resource, error)
		// ExistingFilenames returns the subset of names referenced by a resource row.
		ExistingFilenames(ctx context.Context, names []string) (map[string]bool, error)
	}

	// SearchArgs are AND-combined, empty fields are ignored.
	SearchArgs struct {
		Title   string
		Author  string
		Subject string
	}
)

func NewResourceClient(client *gorm.DB) ResourceClient {
	return &resourceClient{client: client}
}

type resourceClient struct {
	client *gorm.DB
}

func (c *resourceClient) SetClient(newClient *gorm.DB) TxOperator {
	return &resourceClient{client: newClient}
}

func (c *resourceClient) GetClient() *gorm.DB {
	return c.client
}

func (c *resourceClient) Create(ctx context.Context, resource *model.Resource) error {
	if err := clientFromCtx(ctx, c.client).Create(resource).Error; err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

func (c *resourceClient) GetByID(ctx context.Context, id int) (*model.Resource, error) {
	res := &model.Resource{}
	if err := clientFromCtx(ctx, c.client).First(res, id).Error; err != nil {
		return nil, err
	}
	return res, nil
}

func (c *resourceClient) ListInFolder(ctx context.Context, uploaderID uint, folderID *uint) ([]model.Resource, error) {
	query := clientFromCtx(ctx, c.client)
	if folderID == nil {
		query = query.Where("uploader_id = ? AND folder_id IS NULL", uploaderID)
	} else {
		query = query.Where("folder_id = ?", *folderID)
	}

	var resources []model.Resource
	if err := query.Order("id asc").Find(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}

func (c *resourceClient) CountInFolder(ctx context.Context, folderID uint) (int, error) {
	var count int
	err := clientFromCtx(ctx, c.client).Model(&model.Resource{}).Where("folder_id = ?", folderID).Count(&count).Error
	return count, err
}

func (c *resourceClient) Delete(ctx context.Context, id uint) error {
	db := clientFromCtx(ctx, c.client)
	if err := db.Where("resource_id = ?", id).Delete(&model.Review{}).Error; err != nil {
		return fmt.Errorf("failed to delete reviews: %w", err)
	}

	if err := db.Where("id = ?", id).Delete(&model.Resource{}).Error; err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}

	return nil
}

func (c *resourceClient) Search(ctx context.Context, args *SearchArgs) ([]model.Resource, error) {
	query := clientFromCtx(ctx, c.client)
	filters := []struct {
		column string
		value  string
	}{
		{"title", args.Title},
		{"author", args.Author},
		{"subject", args.Subject},
	}

	for _, f := range filters {
		if f.value == "" {
			continue
		}
		pattern := "%" + util.EscapeLike(strings.ToLower(f.value)) + "%"
		query = query.Where(fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '!'", f.column), pattern)
	}

	var resources []model.Resource
	if err := query.Order("id asc").Find(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}

func (c *resourceClient) ExistingFilenames(ctx context.Context, names []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(names))
	db := clientFromCtx(ctx, c.client)
	for _, chunk := range lo.Chunk(names, filenameQueryChunk) {
		var found []string
		if err := db.Model(&model.Resource{}).Where("filename IN (?)", chunk).Pluck("filename", &found).Error; err != nil {
			return nil, err
		}
		for _, name := range found {
			existing[name] = true
		}
	}

	return existing, nil
}
