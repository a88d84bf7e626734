package crontab

import (
	"context"
	"fmt"

	"github.com/edushare/edushare/application/dependency"
	"github.com/edushare/edushare/pkg/logging"
	"github.com/gofrs/uuid"
	"github.com/robfig/cron/v3"
)

type (
	CronType     string
	CronTaskFunc func(ctx context.Context)

	cronRegistration struct {
		t  CronType
		fn CronTaskFunc
	}
)

const (
	CronTypeGarbageCollect = CronType("garbage_collect")
	CronTypeOrphanCollect  = CronType("orphan_collect")
)

var (
	registrations []cronRegistration
)

// Register registers a cron task.
func Register(t CronType, fn CronTaskFunc) {
	registrations = append(registrations, cronRegistration{
		t:  t,
		fn: fn,
	})
}

func init() {
	Register(CronTypeGarbageCollect, GarbageCollect)
	Register(CronTypeOrphanCollect, OrphanCollect)
}

// NewCron constructs a new cron instance with given dependency. Tasks with an
// empty schedule are skipped.
func NewCron(dep dependency.Dep) *cron.Cron {
	l := dep.Logger()
	l.Info("Initialize crontab jobs...")
	c := cron.New()

	for _, r := range registrations {
		cronConfig := schedule(dep, r.t)
		if cronConfig == "" {
			l.Info("Cron task %q is disabled.", r.t)
			continue
		}

		if _, err := c.AddFunc(cronConfig, taskWrapper(string(r.t), cronConfig, dep, r.fn)); err != nil {
			l.Warning("Failed to start crontab job %q: %s", cronConfig, err)
		}
	}

	return c
}

func schedule(dep dependency.Dep, t CronType) string {
	config := dep.ConfigProvider().Cron()
	switch t {
	case CronTypeGarbageCollect:
		return config.GarbageCollect
	case CronTypeOrphanCollect:
		return config.OrphanCollect
	default:
		return ""
	}
}

func taskWrapper(name, config string, dep dependency.Dep, task CronTaskFunc) func() {
	l := dep.Logger()
	l.Info("Cron task %s started with config %q", name, config)
	return func() {
		cid := uuid.Must(uuid.NewV4())
		l.Info("Executing Cron task %q with Cid %q", name, cid)
		ctx := context.Background()
		l := dep.Logger().CopyWithPrefix(fmt.Sprintf("[Cid: %s Cron: %s]", cid, name))
		ctx = dep.ForkWithLogger(ctx, l)
		ctx = context.WithValue(ctx, logging.CorrelationIDCtx{}, cid)
		ctx = context.WithValue(ctx, logging.LoggerCtx{}, l)
		task(ctx)
	}
}
