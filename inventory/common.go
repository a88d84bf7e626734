package inventory

import (
	"errors"
	"strings"

	"github.com/jinzhu/gorm"
)

var (
	// ErrUserExisted is returned when username or email is taken.
	ErrUserExisted = errors.New("username or email has been registered")
	// ErrorIncorrectPassword is returned for both unknown users and wrong passwords.
	ErrorIncorrectPassword = errors.New("incorrect username or password")
	// ErrNotFound is returned when a row is missing or not visible to the caller.
	ErrNotFound = errors.New("record not found")
)

// IsNotFound reports whether err means the queried row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) || gorm.IsRecordNotFoundError(err)
}

// IsUniqueViolation reports whether err is a unique constraint violation
// from any of the supported databases.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}

func tableName(db *gorm.DB, value interface{}) string {
	return db.NewScope(value).TableName()
}
