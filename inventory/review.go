package inventory

import (
	"context"
	"fmt"
	"math"
	"time"

	model "github.com/edushare/edushare/models"
	"github.com/jinzhu/gorm"
	"github.com/samber/lo"
)

// ratingQueryChunk bounds the IN list of one aggregate query.
const ratingQueryChunk = 500

type (
	ReviewClient interface {
		TxOperator
		// Upsert creates or overwrites the review of user on resource in one statement.
		Upsert(ctx context.Context, args *UpsertReviewArgs) (*model.Review, error)
		// ListByResource lists reviews of a resource with their authors, oldest first.
		ListByResource(ctx context.Context, resourceID uint) ([]ReviewWithAuthor, error)
		// AverageRatings returns the rating summary of each resource that has reviews.
		AverageRatings(ctx context.Context, resourceIDs []uint) (map[uint]RatingSummary, error)
	}

	UpsertReviewArgs struct {
		UserID     uint
		ResourceID uint
		Rating     int
		Comment    string
	}

	ReviewWithAuthor struct {
		model.Review
		Username string
	}

	RatingSummary struct {
		// Average is rounded to 2 decimals.
		Average float64
		Count   int
	}
)

func NewReviewClient(client *gorm.DB) ReviewClient {
	return &reviewClient{client: client}
}

type reviewClient struct {
	client *gorm.DB
}

func (c *reviewClient) SetClient(newClient *gorm.DB) TxOperator {
	return &reviewClient{client: newClient}
}

func (c *reviewClient) GetClient() *gorm.DB {
	return c.client
}

func (c *reviewClient) Upsert(ctx context.Context, args *UpsertReviewArgs) (*model.Review, error) {
	db := clientFromCtx(ctx, c.client)
	rating := model.ClampRating(args.Rating)
	now := time.Now()
	table := tableName(db, &model.Review{})

	var err error
	switch db.Dialect().GetName() {
	case "sqlite3", "postgres":
		err = db.Exec(fmt.Sprintf(
			"INSERT INTO %s (created_at, updated_at, rating, comment, user_id, resource_id) VALUES (?, ?, ?, ?, ?, ?) "+
				"ON CONFLICT (user_id, resource_id) DO UPDATE SET rating = excluded.rating, comment = excluded.comment, updated_at = excluded.updated_at",
			db.Dialect().Quote(table)),
			now, now, rating, args.Comment, args.UserID, args.ResourceID).Error
	case "mysql":
		err = db.Exec(fmt.Sprintf(
			"INSERT INTO %s (created_at, updated_at, rating, comment, user_id, resource_id) VALUES (?, ?, ?, ?, ?, ?) "+
				"ON DUPLICATE KEY UPDATE rating = VALUES(rating), comment = VALUES(comment), updated_at = VALUES(updated_at)",
			db.Dialect().Quote(table)),
			now, now, rating, args.Comment, args.UserID, args.ResourceID).Error
	default:
		err = c.updateOrInsert(db, args.UserID, args.ResourceID, rating, args.Comment, now)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	review := &model.Review{}
	if err := db.Where("user_id = ? AND resource_id = ?", args.UserID, args.ResourceID).First(review).Error; err != nil {
		return nil, err
	}

	return review, nil
}

// updateOrInsert is used on dialects without an upsert statement. A conflicting
// concurrent insert is retried once as an update.
func (c *reviewClient) updateOrInsert(db *gorm.DB, userID, resourceID uint, rating int, comment string, now time.Time) error {
	update := func() *gorm.DB {
		return db.Model(&model.Review{}).
			Where("user_id = ? AND resource_id = ?", userID, resourceID).
			Updates(map[string]interface{}{"rating": rating, "comment": comment, "updated_at": now})
	}

	res := update()
	if res.Error != nil || res.RowsAffected > 0 {
		return res.Error
	}

	err := db.Create(&model.Review{
		Rating:     rating,
		Comment:    comment,
		UserID:     userID,
		ResourceID: resourceID,
	}).Error
	if IsUniqueViolation(err) {
		return update().Error
	}

	return err
}

func (c *reviewClient) ListByResource(ctx context.Context, resourceID uint) ([]ReviewWithAuthor, error) {
	db := clientFromCtx(ctx, c.client)
	reviewTable := tableName(db, &model.Review{})
	userTable := tableName(db, &model.User{})

	var reviews []ReviewWithAuthor
	err := db.Table(reviewTable).
		Select(fmt.Sprintf("%s.*, %s.username", reviewTable, userTable)).
		Joins(fmt.Sprintf("LEFT JOIN %s ON %s.id = %s.user_id", userTable, userTable, reviewTable)).
		Where(fmt.Sprintf("%s.resource_id = ?", reviewTable), resourceID).
		Order(fmt.Sprintf("%s.id asc", reviewTable)).
		Scan(&reviews).Error
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

func (c *reviewClient) AverageRatings(ctx context.Context, resourceIDs []uint) (map[uint]RatingSummary, error) {
	res := make(map[uint]RatingSummary, len(resourceIDs))
	if len(resourceIDs) == 0 {
		return res, nil
	}

	db := clientFromCtx(ctx, c.client)
	for _, chunk := range lo.Chunk(resourceIDs, ratingQueryChunk) {
		var rows []struct {
			ResourceID uint
			Average    float64
			Total      int
		}
		err := db.Model(&model.Review{}).
			Select("resource_id, AVG(rating) AS average, COUNT(*) AS total").
			Where("resource_id IN (?)", chunk).
			Group("resource_id").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}

		for _, row := range rows {
			res[row.ResourceID] = RatingSummary{
				Average: math.Round(row.Average*100) / 100,
				Count:   row.Total,
			}
		}
	}

	return res, nil
}
