package inventory

import (
	"context"
	"testing"

	model "github.com/edushare/edushare/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func folderNames(folders []model.Folder) []string {
	return lo.Map(folders, func(f model.Folder, _ int) string { return f.Name })
}

func TestFolderClient_Tree(t *testing.T) {
	asserts := assert.New(t)
	db := newTestDB(t)
	client := NewFolderClient(db)
	ctx := context.Background()
	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")

	math, err := client.Create(ctx, alice.ID, "Math", nil)
	asserts.NoError(err)
	algebra, err := client.Create(ctx, alice.ID, "Algebra", &math.ID)
	asserts.NoError(err)
	linear, err := client.Create(ctx, alice.ID, "Linear", &algebra.ID)
	asserts.NoError(err)
	_, err = client.Create(ctx, alice.ID, "Physics", nil)
	asserts.NoError(err)
	_, err = client.Create(ctx, bob.ID, "Bob's", nil)
	asserts.NoError(err)

	// 根目录仅包含自己的目录
	roots, err := client.ListChildren(ctx, alice.ID, nil)
	asserts.NoError(err)
	asserts.Equal([]string{"Math", "Physics"}, folderNames(roots))

	children, err := client.ListChildren(ctx, alice.ID, &math.ID)
	asserts.NoError(err)
	asserts.Equal([]string{"Algebra"}, folderNames(children))

	count, err := client.CountChildren(ctx, math.ID)
	asserts.NoError(err)
	asserts.Equal(1, count)

	crumbs, err := client.Breadcrumbs(ctx, linear)
	asserts.NoError(err)
	asserts.Equal([]string{"Math", "Algebra", "Linear"}, folderNames(crumbs))

	crumbs, err = client.Breadcrumbs(ctx, math)
	asserts.NoError(err)
	asserts.Equal([]string{"Math"}, folderNames(crumbs))

	// 他人的目录视为不存在
	_, err = client.GetByIDAndOwner(ctx, int(math.ID), bob.ID)
	asserts.True(IsNotFound(err))
	f, err := client.GetByIDAndOwner(ctx, int(math.ID), alice.ID)
	asserts.NoError(err)
	asserts.True(f.IsRoot())

	asserts.NoError(client.Delete(ctx, linear.ID))
	children, err = client.ListChildren(ctx, alice.ID, &algebra.ID)
	asserts.NoError(err)
	asserts.Empty(children)
}

func TestWalkToRoot(t *testing.T) {
	asserts := assert.New(t)
	ptr := func(v uint) *uint { return &v }

	// 正常链路
	index := map[uint]model.Folder{
		1: {ID: 1, Name: "a"},
		2: {ID: 2, Name: "b", ParentID: ptr(1)},
		3: {ID: 3, Name: "c", ParentID: ptr(2)},
	}
	asserts.Equal([]string{"a", "b", "c"}, folderNames(walkToRoot(index, 3)))

	// 父目录缺失时停止
	index = map[uint]model.Folder{
		3: {ID: 3, Name: "c", ParentID: ptr(2)},
	}
	asserts.Equal([]string{"c"}, folderNames(walkToRoot(index, 3)))

	// 存在环时也能结束
	index = map[uint]model.Folder{
		1: {ID: 1, Name: "a", ParentID: ptr(2)},
		2: {ID: 2, Name: "b", ParentID: ptr(1)},
	}
	asserts.Equal([]string{"a", "b"}, folderNames(walkToRoot(index, 2)))

	asserts.Empty(walkToRoot(index, 42))
}
