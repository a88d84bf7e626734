package util

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	rand.Seed(time.Now().UnixNano())
}

var (
	RandomVariantAll = []rune("1234567890abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	RandomLowerCases = []rune("1234567890abcdefghijklmnopqrstuvwxyz")
)

// RandStringRunes returns a random alphanumeric string of length n.
func RandStringRunes(n int) string {
	return RandString(n, RandomVariantAll)
}

// RandString returns random string in given length and variant
func RandString(n int, variant []rune) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = variant[rand.Intn(len(variant))]
	}
	return string(b)
}

// IsInExtensionList reports whether the extension of fileName is in extList.
// A name without extension never matches.
func IsInExtensionList(extList []string, fileName string) bool {
	ext := Ext(fileName)
	if len(ext) == 0 {
		return false
	}

	return ContainsString(extList, ext)
}

// ContainsString 返回list中是否包含
func ContainsString(s []string, e string) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}

// Replace 根据替换表执行批量替换
func Replace(table map[string]string, s string) string {
	for key, value := range table {
		s = strings.Replace(s, key, value, -1)
	}
	return s
}

// EscapeLike escapes LIKE wildcards in s using '!' as the escape character.
func EscapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

// WithValue inject key-value pair into request context.
func WithValue(c *gin.Context, key any, value any) {
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), key, value))
}

func ToPtr[T any](v T) *T {
	return &v
}
