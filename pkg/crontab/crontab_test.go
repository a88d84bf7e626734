package crontab

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/edushare/edushare/application/dependency"
	model "github.com/edushare/edushare/models"
	"github.com/edushare/edushare/pkg/cache"
	"github.com/edushare/edushare/pkg/conf"
	"github.com/edushare/edushare/pkg/logging"
	"github.com/edushare/edushare/pkg/mocks/cachemock"
	"github.com/stretchr/testify/assert"
)

type collectableMock struct {
	*cachemock.CacheClientMock
	collected int
}

func (m *collectableMock) GarbageCollect() int {
	m.collected++
	return 3
}

func newTestDep(t *testing.T, extra string, opts ...dependency.Option) (dependency.Dep, string) {
	l := logging.NewLogger(logging.LevelError, &bytes.Buffer{})
	savePath := t.TempDir()
	config, err := conf.NewIniConfigProviderFromBytes([]byte(fmt.Sprintf(
		"[Database]\nType = sqlite\nDBFile = :memory:\n[Upload]\nSavePath = %s\n%s", savePath, extra)), l)
	if err != nil {
		t.Fatalf("failed to parse config: %s", err)
	}

	dep := dependency.NewDependency(append([]dependency.Option{
		dependency.WithConfigProvider(config),
		dependency.WithLogger(l),
	}, opts...)...)
	return dep, savePath
}

func taskContext(dep dependency.Dep) context.Context {
	ctx := dep.ForkWithLogger(context.Background(), dep.Logger())
	return context.WithValue(ctx, logging.LoggerCtx{}, dep.Logger())
}

func TestNewCron(t *testing.T) {
	asserts := assert.New(t)

	dep, _ := newTestDep(t, "[Cron]\nGarbageCollect = @every 30m\nOrphanCollect =\n")
	asserts.Len(NewCron(dep).Entries(), 1)

	dep, _ = newTestDep(t, "[Cron]\nGarbageCollect = @every 30m\nOrphanCollect = @every 1h\n")
	asserts.Len(NewCron(dep).Entries(), 2)

	// 无效的表达式被跳过
	dep, _ = newTestDep(t, "[Cron]\nGarbageCollect = not a schedule\nOrphanCollect =\n")
	asserts.Len(NewCron(dep).Entries(), 0)
}

func TestGarbageCollect(t *testing.T) {
	asserts := assert.New(t)

	kv := &collectableMock{CacheClientMock: &cachemock.CacheClientMock{}}
	dep, _ := newTestDep(t, "", dependency.WithKV(kv))
	GarbageCollect(taskContext(dep))
	asserts.Equal(1, kv.collected)

	// 不支持垃圾回收的存储直接跳过
	plain := &cachemock.CacheClientMock{}
	dep, _ = newTestDep(t, "", dependency.WithKV(plain))
	asserts.NotPanics(func() { GarbageCollect(taskContext(dep)) })
	plain.AssertExpectations(t)

	dep, _ = newTestDep(t, "", dependency.WithKV(cache.NewMemoStore()))
	asserts.NotPanics(func() { GarbageCollect(taskContext(dep)) })
}

func TestOrphanCollect(t *testing.T) {
	asserts := assert.New(t)
	dep, savePath := newTestDep(t, "")
	defer dep.DBClient().Close()
	ctx := taskContext(dep)

	old := time.Now().Add(-2 * time.Hour)
	for _, name := range []string{"kept.pdf", "orphan.pdf", "fresh.pdf"} {
		p := filepath.Join(savePath, name)
		asserts.NoError(os.WriteFile(p, []byte(name), 0644))
		if name != "fresh.pdf" {
			asserts.NoError(os.Chtimes(p, old, old))
		}
	}

	asserts.NoError(dep.ResourceClient().Create(ctx, &model.Resource{
		Title:      "Kept",
		Filename:   "kept.pdf",
		UploaderID: 1,
	}))

	OrphanCollect(ctx)

	asserts.FileExists(filepath.Join(savePath, "kept.pdf"))
	asserts.FileExists(filepath.Join(savePath, "fresh.pdf"))
	asserts.NoFileExists(filepath.Join(savePath, "orphan.pdf"))
}
