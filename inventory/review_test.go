package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	model "github.com/edushare/edushare/models"
	"github.com/stretchr/testify/assert"
)

func TestReviewClient_Upsert(t *testing.T) {
	asserts := assert.New(t)
	db := newTestDB(t)
	client := NewReviewClient(db)
	ctx := context.Background()
	alice := mustCreateUser(t, db, "alice")
	r := mustCreateResource(t, db, alice.ID, "notes", nil)

	first, err := client.Upsert(ctx, &UpsertReviewArgs{UserID: alice.ID, ResourceID: r.ID, Rating: 3, Comment: "meh"})
	asserts.NoError(err)
	asserts.Equal(3, first.Rating)

	// 再次提交覆盖原评价
	second, err := client.Upsert(ctx, &UpsertReviewArgs{UserID: alice.ID, ResourceID: r.ID, Rating: 9, Comment: "great"})
	asserts.NoError(err)
	asserts.Equal(first.ID, second.ID)
	asserts.Equal(9, second.Rating)
	asserts.Equal("great", second.Comment)

	var count int
	asserts.NoError(db.Model(&model.Review{}).Where("user_id = ? AND resource_id = ?", alice.ID, r.ID).Count(&count).Error)
	asserts.Equal(1, count)
}

func TestReviewClient_UpsertClamp(t *testing.T) {
	asserts := assert.New(t)
	db := newTestDB(t)
	client := NewReviewClient(db)
	ctx := context.Background()
	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")
	r := mustCreateResource(t, db, alice.ID, "notes", nil)

	review, err := client.Upsert(ctx, &UpsertReviewArgs{UserID: alice.ID, ResourceID: r.ID, Rating: 15})
	asserts.NoError(err)
	asserts.Equal(10, review.Rating)

	review, err = client.Upsert(ctx, &UpsertReviewArgs{UserID: bob.ID, ResourceID: r.ID, Rating: -3})
	asserts.NoError(err)
	asserts.Equal(1, review.Rating)

	review, err = client.Upsert(ctx, &UpsertReviewArgs{UserID: bob.ID, ResourceID: r.ID, Rating: 0})
	asserts.NoError(err)
	asserts.Equal(1, review.Rating)
}

func TestReviewClient_UpdateOrInsert(t *testing.T) {
	asserts := assert.New(t)
	db := newTestDB(t)
	client := &reviewClient{client: db}
	alice := mustCreateUser(t, db, "alice")
	r := mustCreateResource(t, db, alice.ID, "notes", nil)
	now := r.CreatedAt

	asserts.NoError(client.updateOrInsert(db, alice.ID, r.ID, 4, "first", now))
	asserts.NoError(client.updateOrInsert(db, alice.ID, r.ID, 8, "second", now))

	var reviews []model.Review
	asserts.NoError(db.Find(&reviews).Error)
	if asserts.Len(reviews, 1) {
		asserts.Equal(8, reviews[0].Rating)
		asserts.Equal("second", reviews[0].Comment)
	}
}

func TestReviewClient_ListByResource(t *testing.T) {
	asserts := assert.New(t)
	db := newTestDB(t)
	client := NewReviewClient(db)
	ctx := context.Background()
	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")
	r := mustCreateResource(t, db, alice.ID, "notes", nil)

	_, err := client.Upsert(ctx, &UpsertReviewArgs{UserID: bob.ID, ResourceID: r.ID, Rating: 6, Comment: "ok"})
	asserts.NoError(err)
	_, err = client.Upsert(ctx, &UpsertReviewArgs{UserID: alice.ID, ResourceID: r.ID, Rating: 2})
	asserts.NoError(err)

	reviews, err := client.ListByResource(ctx, r.ID)
	asserts.NoError(err)
	if asserts.Len(reviews, 2) {
		asserts.Equal("bob", reviews[0].Username)
		asserts.Equal(6, reviews[0].Rating)
		asserts.Equal("ok", reviews[0].Comment)
		asserts.Equal("alice", reviews[1].Username)
	}

	reviews, err = client.ListByResource(ctx, 999)
	asserts.NoError(err)
	asserts.Empty(reviews)
}

func TestReviewClient_AverageRatings(t *testing.T) {
	asserts := assert.New(t)
	db := newTestDB(t)
	client := NewReviewClient(db)
	ctx := context.Background()
	owner := mustCreateUser(t, db, "owner")
	rated := mustCreateResource(t, db, owner.ID, "rated", nil)
	unrated := mustCreateResource(t, db, owner.ID, "unrated", nil)

	for i, rating := range []int{2, 5, 10} {
		u := mustCreateUser(t, db, []string{"a", "b", "c"}[i])
		_, err := client.Upsert(ctx, &UpsertReviewArgs{UserID: u.ID, ResourceID: rated.ID, Rating: rating})
		asserts.NoError(err)
	}

	summaries, err := client.AverageRatings(ctx, []uint{rated.ID, unrated.ID})
	asserts.NoError(err)
	asserts.Equal(RatingSummary{Average: 5.67, Count: 3}, summaries[rated.ID])

	// 无评价时不存在平均分
	_, ok := summaries[unrated.ID]
	asserts.False(ok)

	summaries, err = client.AverageRatings(ctx, nil)
	asserts.NoError(err)
	asserts.Empty(summaries)
}

func TestReviewClient_AverageRatingsError(t *testing.T) {
	asserts := assert.New(t)
	db, mock := newMockDB(t)
	client := NewReviewClient(db)

	mock.ExpectQuery("SELECT resource_id, AVG").WillReturnError(errors.New("timeout"))
	_, err := client.AverageRatings(context.Background(), []uint{1})
	asserts.Error(err)
	asserts.NoError(mock.ExpectationsWereMet())
}

func TestReviewClient_AverageRatingsChunked(t *testing.T) {
	asserts := assert.New(t)
	db, mock := newMockDB(t)
	client := NewReviewClient(db)

	ids := make([]uint, ratingQueryChunk+1)
	for i := range ids {
		ids[i] = uint(i + 1)
	}

	mock.ExpectQuery("SELECT resource_id, AVG").
		WillReturnRows(sqlmock.NewRows([]string{"resource_id", "average", "total"}).AddRow(1, 4.5, 2))
	mock.ExpectQuery("SELECT resource_id, AVG").
		WillReturnRows(sqlmock.NewRows([]string{"resource_id", "average", "total"}).AddRow(ratingQueryChunk+1, 7.0, 1))

	res, err := client.AverageRatings(context.Background(), ids)
	asserts.NoError(err)
	asserts.Len(res, 2)
	asserts.Equal(RatingSummary{Average: 4.5, Count: 2}, res[1])
	asserts.Equal(RatingSummary{Average: 7, Count: 1}, res[ratingQueryChunk+1])
	asserts.NoError(mock.ExpectationsWereMet())
}

func TestReviewClient_UpsertMySQL(t *testing.T) {
	asserts := assert.New(t)
	db, mock := newMockDB(t)
	client := NewReviewClient(db)

	mock.ExpectExec("INSERT INTO `reviews` .+ ON DUPLICATE KEY UPDATE").WillReturnError(errors.New("deadlock"))
	_, err := client.Upsert(context.Background(), &UpsertReviewArgs{UserID: 1, ResourceID: 1, Rating: 5})
	asserts.Error(err)
	asserts.NoError(mock.ExpectationsWereMet())
}
