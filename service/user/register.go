package user

import (
	"errors"
	"strings"

	"github.com/edushare/edushare/application/dependency"
	"github.com/edushare/edushare/inventory"
	"github.com/edushare/edushare/pkg/serializer"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bcrypt ignores anything past 72 bytes
const maxPasswordBytes = 72

var validate = validator.New()

type (
	// UserRegisterService 管理用户注册的服务
	UserRegisterService struct {
		Username string `form:"username" json:"username"`
		Email    string `form:"email" json:"email"`
		Password string `form:"password" json:"password"`
	}
	RegisterParameterCtx struct{}
)

// Register 新用户注册
func (service *UserRegisterService) Register(c *gin.Context) (*User, error) {
	username := strings.TrimSpace(service.Username)
	email := strings.ToLower(strings.TrimSpace(service.Email))
	if username == "" || email == "" || service.Password == "" {
		return nil, serializer.NewError(serializer.CodeParamErr, "All fields are required.", nil)
	}

	if err := validate.Var(email, "email"); err != nil {
		return nil, serializer.NewError(serializer.CodeParamErr, "Email address is invalid.", err)
	}

	if len(service.Password) > maxPasswordBytes {
		return nil, serializer.NewError(serializer.CodeParamErr, "Password is too long.", nil)
	}

	dep := dependency.FromContext(c)
	u, err := dep.UserClient().Create(c, &inventory.NewUserArgs{
		Username:      username,
		Email:         email,
		PlainPassword: service.Password,
	})
	if err != nil {
		if errors.Is(err, inventory.ErrUserExisted) {
			return nil, serializer.NewError(serializer.CodeDuplicateIdentity, "Username or email already exists.", err)
		}

		return nil, serializer.NewError(serializer.CodeDBError, "Failed to create user.", err)
	}

	dep.Logger().Info("New user %q registered.", u.Username)
	res := BuildUser(u, dep.HashIDEncoder())
	return &res, nil
}
