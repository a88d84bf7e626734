package user

import (
	"time"

	model "github.com/edushare/edushare/models"
	"github.com/edushare/edushare/pkg/hashid"
)

// User 用户序列化器
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BuildUser 序列化用户
func BuildUser(user *model.User, idEncoder hashid.Encoder) User {
	return User{
		ID:        hashid.EncodeUserID(idEncoder, int(user.ID)),
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// BuildUserRedacted 序列化用户, 不包含邮箱等私有信息
func BuildUserRedacted(user *model.User, idEncoder hashid.Encoder) User {
	res := BuildUser(user, idEncoder)
	res.Email = ""
	return res
}
