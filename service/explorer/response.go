package explorer

import (
	"time"

	"github.com/edushare/edushare/inventory"
	model "github.com/edushare/edushare/models"
	"github.com/edushare/edushare/pkg/hashid"
	"github.com/samber/lo"
)

type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Parent    string    `json:"parent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func BuildFolder(f *model.Folder, idEncoder hashid.Encoder) Folder {
	res := Folder{
		ID:        hashid.EncodeFolderID(idEncoder, int(f.ID)),
		Name:      f.Name,
		CreatedAt: f.CreatedAt,
	}
	if f.ParentID != nil {
		res.Parent = hashid.EncodeFolderID(idEncoder, int(*f.ParentID))
	}
	return res
}

func BuildFolders(folders []model.Folder, idEncoder hashid.Encoder) []Folder {
	return lo.Map(folders, func(f model.Folder, _ int) Folder {
		return BuildFolder(&f, idEncoder)
	})
}

type Resource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author,omitempty"`
	Subject     string    `json:"subject,omitempty"`
	Description string    `json:"description,omitempty"`
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mime_type,omitempty"`
	Size        int64     `json:"size"`
	Uploader    string    `json:"uploader"`
	Folder      string    `json:"folder,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	// AverageRating is absent when the resource has no reviews.
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int      `json:"review_count"`
	Owned         bool     `json:"owned"`
}

// BuildResource 序列化资料, viewer 为当前用户ID
func BuildResource(r *model.Resource, summary *inventory.RatingSummary, viewer uint, idEncoder hashid.Encoder) Resource {
	res := Resource{
		ID:          hashid.EncodeResourceID(idEncoder, int(r.ID)),
		Title:       r.Title,
		Author:      r.Author,
		Subject:     r.Subject,
		Description: r.Description,
		Filename:    r.Filename,
		MimeType:    r.MimeType,
		Size:        r.Size,
		Uploader:    hashid.EncodeUserID(idEncoder, int(r.UploaderID)),
		CreatedAt:   r.CreatedAt,
		Owned:       r.UploaderID == viewer,
	}
	if r.FolderID != nil {
		res.Folder = hashid.EncodeFolderID(idEncoder, int(*r.FolderID))
	}
	if summary != nil {
		res.AverageRating = lo.ToPtr(summary.Average)
		res.ReviewCount = summary.Count
	}
	return res
}

func BuildResources(resources []model.Resource, summaries map[uint]inventory.RatingSummary, viewer uint, idEncoder hashid.Encoder) []Resource {
	return lo.Map(resources, func(r model.Resource, _ int) Resource {
		var summary *inventory.RatingSummary
		if s, ok := summaries[r.ID]; ok {
			summary = &s
		}
		return BuildResource(&r, summary, viewer, idEncoder)
	})
}

type Review struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	User      string    `json:"user"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func BuildReview(r *model.Review, username string, idEncoder hashid.Encoder) Review {
	return Review{
		ID:        hashid.EncodeReviewID(idEncoder, int(r.ID)),
		Rating:    r.Rating,
		Comment:   r.Comment,
		User:      hashid.EncodeUserID(idEncoder, int(r.UserID)),
		Username:  username,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ListResponse 目录视图
type ListResponse struct {
	// Current is nil for the root view.
	Current     *Folder    `json:"current,omitempty"`
	Breadcrumbs []Folder   `json:"breadcrumbs"`
	Folders     []Folder   `json:"folders"`
	Resources   []Resource `json:"resources"`
}

// ResourceDetail 资料详情及评价
type ResourceDetail struct {
	Resource
	UploaderName string   `json:"uploader_name,omitempty"`
	Reviews      []Review `json:"reviews"`
}

type SearchResponse struct {
	Query   string     `json:"q"`
	Author  string     `json:"author"`
	Subject string     `json:"subject"`
	Sort    string     `json:"sort"`
	Results []Resource `json:"results"`
}
