package explorer

import (
	"sort"
	"strings"

	"github.com/edushare/edushare/application/dependency"
	"github.com/edushare/edushare/inventory"
	"github.com/gin-gonic/gin"
)

const SortByRating = "rating"

type (
	// SearchService 按标题/作者/学科检索资料, 条件之间为且关系
	SearchService struct {
		Query   string `form:"q"`
		Author  string `form:"author"`
		Subject string `form:"subject"`
		Sort    string `form:"sort"`
	}
	SearchParameterCtx struct{}
)

// Search 检索资料, sort=rating 时按平均分降序, 无评价的资料按 0 分参与排序
func (service *SearchService) Search(c *gin.Context) (*SearchResponse, error) {
	dep := dependency.FromContext(c)
	u := inventory.UserFromContext(c)

	res := &SearchResponse{
		Query:   strings.TrimSpace(service.Query),
		Author:  strings.TrimSpace(service.Author),
		Subject: strings.TrimSpace(service.Subject),
		Sort:    strings.TrimSpace(service.Sort),
	}

	resources, err := dep.ResourceClient().Search(c, &inventory.SearchArgs{
		Title:   res.Query,
		Author:  res.Author,
		Subject: res.Subject,
	})
	if err != nil {
		return nil, dbErr("Failed to search resources.", err)
	}

	summaries, err := dep.ReviewClient().AverageRatings(c, resourceIDs(resources))
	if err != nil {
		return nil, dbErr("Failed to calculate ratings.", err)
	}

	res.Results = BuildResources(resources, summaries, u.ID, dep.HashIDEncoder())
	if res.Sort == SortByRating {
		sortByRating(res.Results)
	}

	return res, nil
}

// sortByRating orders by average rating descending, keeping ID order among equals.
func sortByRating(results []Resource) {
	score := func(r Resource) float64 {
		if r.AverageRating == nil {
			return 0
		}
		return *r.AverageRating
	}

	sort.SliceStable(results, func(i, j int) bool {
		return score(results[i]) > score(results[j])
	})
}
