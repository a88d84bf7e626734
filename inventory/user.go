package inventory

import (
	"context"
	"fmt"
	"strings"

	model "github.com/edushare/edushare/models"
	"github.com/jinzhu/gorm"
	"golang.org/x/crypto/bcrypt"
)

type (
	// UserCtx holds the authenticated *model.User of a request.
	UserCtx struct{}

	UserClient interface {
		TxOperator
		// Create creates a new user, ErrUserExisted is returned if the username or email is taken.
		Create(ctx context.Context, args *NewUserArgs) (*model.User, error)
		// GetByID get user by its ID.
		GetByID(ctx context.Context, id int) (*model.User, error)
		// GetByUsername get user by its exact username.
		GetByUsername(ctx context.Context, username string) (*model.User, error)
		// GetByIDs returns users keyed by ID, missing IDs are skipped.
		GetByIDs(ctx context.Context, ids []uint) (map[uint]*model.User, error)
	}

	// NewUserArgs args to create a new user
	NewUserArgs struct {
		Username      string
		Email         string
		PlainPassword string
	}
)

func NewUserClient(client *gorm.DB) UserClient {
	return &userClient{client: client}
}

type userClient struct {
	client *gorm.DB
}

func (c *userClient) SetClient(newClient *gorm.DB) TxOperator {
	return &userClient{client: newClient}
}

func (c *userClient) GetClient() *gorm.DB {
	return c.client
}

func (c *userClient) Create(ctx context.Context, args *NewUserArgs) (*model.User, error) {
	db := clientFromCtx(ctx, c.client)
	email := strings.ToLower(args.Email)

	var count int
	if err := db.Model(&model.User{}).
		Where("username = ? OR email = ?", args.Username, email).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if count > 0 {
		return nil, ErrUserExisted
	}

	digest, err := digestPassword(args.PlainPassword)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Username: args.Username,
		Email:    email,
		Password: digest,
	}
	if err := db.Create(u).Error; err != nil {
		// 并发注册时由唯一索引兜底
		if IsUniqueViolation(err) {
			return nil, ErrUserExisted
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (c *userClient) GetByID(ctx context.Context, id int) (*model.User, error) {
	u := &model.User{}
	if err := clientFromCtx(ctx, c.client).First(u, id).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (c *userClient) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u := &model.User{}
	if err := clientFromCtx(ctx, c.client).Where("username = ?", username).First(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (c *userClient) GetByIDs(ctx context.Context, ids []uint) (map[uint]*model.User, error) {
	res := make(map[uint]*model.User, len(ids))
	if len(ids) == 0 {
		return res, nil
	}

	var users []model.User
	if err := clientFromCtx(ctx, c.client).Where("id IN (?)", ids).Find(&users).Error; err != nil {
		return nil, err
	}

	for i := range users {
		res[users[i].ID] = &users[i]
	}
	return res, nil
}

// CheckPassword 根据明文校验密码
func CheckPassword(u *model.User, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return ErrorIncorrectPassword
	}
	return nil
}

func digestPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to digest password: %w", err)
	}
	return string(digest), nil
}

// UserFromContext returns the authenticated user carried by ctx, or nil.
func UserFromContext(ctx context.Context) *model.User {
	u, _ := ctx.Value(UserCtx{}).(*model.User)
	return u
}
