package hashid

import (
	"context"
	"errors"
	"fmt"

	"github.com/speps/go-hashids"
)

// ID类型
const (
	UserID     = iota // 用户
	FolderID          // 目录
	ResourceID        // 资源
	ReviewID          // 评价
)

var (
	// ErrTypeNotMatch ID类型不匹配
	ErrTypeNotMatch = errors.New("mismatched ID type")
)

type (
	// ObjectIDCtx holds the decoded ID of the object addressed by the request path.
	ObjectIDCtx struct{}
)

// Encoder converts database primary keys to and from typed public IDs.
type Encoder interface {
	Encode(v []int) (string, error)
	Decode(raw string, t int) (int, error)
}

type hashEncoder struct {
	h *hashids.HashID
}

// New creates an Encoder salted with salt.
func New(salt string) (Encoder, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 4

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("failed to init hashid encoder: %w", err)
	}

	return &hashEncoder{h: h}, nil
}

func (e *hashEncoder) Encode(v []int) (string, error) {
	return e.h.Encode(v)
}

func (e *hashEncoder) Decode(raw string, t int) (int, error) {
	v, err := e.h.DecodeWithError(raw)
	if err != nil {
		return 0, err
	}

	if len(v) != 2 || v[1] != t {
		return 0, ErrTypeNotMatch
	}

	return v[0], nil
}

// EncodeID 计算数据库内主键对应的HashID
func EncodeID(encoder Encoder, id int, t int) string {
	v, _ := encoder.Encode([]int{id, t})
	return v
}

func EncodeUserID(encoder Encoder, id int) string {
	return EncodeID(encoder, id, UserID)
}

func EncodeFolderID(encoder Encoder, id int) string {
	return EncodeID(encoder, id, FolderID)
}

func EncodeResourceID(encoder Encoder, id int) string {
	return EncodeID(encoder, id, ResourceID)
}

func EncodeReviewID(encoder Encoder, id int) string {
	return EncodeID(encoder, id, ReviewID)
}

// FromContext 从上下文中获取已解码的对象ID
func FromContext(c context.Context) int {
	v, _ := c.Value(ObjectIDCtx{}).(int)
	return v
}
