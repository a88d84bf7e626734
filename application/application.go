package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/edushare/edushare/application/constants"
	"github.com/edushare/edushare/application/dependency"
	"github.com/edushare/edushare/pkg/conf"
	"github.com/edushare/edushare/pkg/crontab"
	"github.com/edushare/edushare/pkg/logging"
	"github.com/edushare/edushare/routers"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

type Server interface {
	// Start starts the EduShare server.
	Start() error
	PrintBanner()
	Close()
}

// NewServer constructs a new EduShare server instance with given dependency.
func NewServer(dep dependency.Dep) Server {
	return &server{
		dep:    dep,
		logger: dep.Logger(),
		config: dep.ConfigProvider(),
	}
}

type server struct {
	dep    dependency.Dep
	logger logging.Logger
	config conf.ConfigProvider
	server *http.Server
	cron   *cron.Cron
}

func (s *server) PrintBanner() {
	fmt.Print(`
   ___    _       ___ _                    
  / __|__| |_  _ / __| |_  __ _ _ _ ___ 
  | _|/ _  | || |\__ \ ' \/ _' | '_/ -_)
  |___\__,_|\_,_||___/_||_\__,_|_| \___|

   V` + constants.BackendVersion + `  Commit #` + constants.LastCommit + `
================================================

`)
}

func (s *server) Start() error {
	// Debug 关闭时，切换为生产模式
	if !s.config.System().Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// make sure all dep is initialized before server start.
	s.dep.DBClient()
	s.dep.KV()
	s.dep.HashIDEncoder()
	s.dep.FileSystem()

	// Start cron jobs
	s.cron = crontab.NewCron(s.dep)
	s.cron.Start()

	api := routers.InitRouter(s.dep)
	s.server = &http.Server{Handler: api}

	s.logger.Info("Listening to %q", s.config.System().Listen)
	s.server.Addr = s.config.System().Listen
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to listen to %q: %w", s.config.System().Listen, err)
	}
	return nil
}

func (s *server) Close() {
	ctx := context.Background()
	if s.config.System().GracePeriod != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.config.System().GracePeriod)*time.Second)
		defer cancel()
	}

	// Shutdown http server
	if s.server != nil {
		err := s.server.Shutdown(ctx)
		if err != nil {
			s.logger.Error("Failed to shutdown server: %s", err)
		}
	}

	// Wait for running cron jobs
	if s.cron != nil {
		select {
		case <-s.cron.Stop().Done():
		case <-ctx.Done():
			s.logger.Warning("Cron jobs are still running after grace period.")
		}
	}

	if err := s.dep.Shutdown(ctx); err != nil {
		s.logger.Warning("Failed to shutdown dependency manager: %s", err)
	}
}
