package explorer

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/edushare/edushare/application/dependency"
	"github.com/edushare/edushare/inventory"
	"github.com/edushare/edushare/pkg/serializer"
	"github.com/gin-gonic/gin"
)

type (
	// SubmitReviewService 评价服务, 分数超出范围时会被截断到 [1,10]
	SubmitReviewService struct {
		Rating  json.Number `form:"rating" json:"rating"`
		Comment string      `form:"comment" json:"comment"`
	}
	SubmitReviewParameterCtx struct{}
)

// Submit 创建或覆盖当前用户对资料的评价
func (service *SubmitReviewService) Submit(c *gin.Context) (*Review, error) {
	dep := dependency.FromContext(c)
	u := inventory.UserFromContext(c)

	rating, err := parseRating(service.Rating)
	if err != nil {
		return nil, serializer.NewError(serializer.CodeParamErr, "Rating must be a whole number.", err)
	}

	resource, err := getResource(c)
	if err != nil {
		return nil, err
	}

	review, err := dep.ReviewClient().Upsert(c, &inventory.UpsertReviewArgs{
		UserID:     u.ID,
		ResourceID: resource.ID,
		Rating:     rating,
		Comment:    strings.TrimSpace(service.Comment),
	})
	if err != nil {
		return nil, dbErr("Failed to save review.", err)
	}

	res := BuildReview(review, u.Username, dep.HashIDEncoder())
	return &res, nil
}

// parseRating reads a whole number rating. Empty input counts as 0, values
// beyond the int range saturate so they still clamp to the nearest bound.
func parseRating(raw json.Number) (int, error) {
	s := strings.TrimSpace(raw.String())
	if s == "" {
		return 0, nil
	}

	rating, err := strconv.Atoi(s)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			if strings.HasPrefix(s, "-") {
				return math.MinInt, nil
			}
			return math.MaxInt, nil
		}
		return 0, err
	}

	return rating, nil
}
