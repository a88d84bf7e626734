package dependency

import (
	"context"
	"errors"
	"fmt"
	"sync"

	model "github.com/edushare/edushare/models"
	"github.com/edushare/edushare/inventory"
	"github.com/edushare/edushare/pkg/cache"
	"github.com/edushare/edushare/pkg/conf"
	"github.com/edushare/edushare/pkg/filesystem"
	"github.com/edushare/edushare/pkg/hashid"
	"github.com/edushare/edushare/pkg/logging"
	"github.com/edushare/edushare/pkg/util"
	"github.com/jinzhu/gorm"
)

var (
	ErrorConfigPathNotSet = errors.New("config path not set")
)

const cacheFile = "kv.bin"

type (
	// DepCtx defines keys for dependency manager
	DepCtx struct{}
)

// Dep manages all dependencies of the server application. The default implementation is not
// concurrent safe, so all inner deps should be initialized before any goroutine starts.
type Dep interface {
	// ConfigProvider Get a singleton conf.ConfigProvider instance.
	ConfigProvider() conf.ConfigProvider
	// Logger Get a singleton logging.Logger instance.
	Logger() logging.Logger
	// DBClient Get a singleton gorm.DB instance for database access, migrated on first use.
	DBClient() *gorm.DB
	// KV Get a singleton cache.Driver instance for KV store.
	KV() cache.Driver
	// HashIDEncoder Get a singleton hashid.Encoder instance for encoding/decoding hashids.
	HashIDEncoder() hashid.Encoder
	// UserClient Creates a new inventory.UserClient instance for access DB user store.
	UserClient() inventory.UserClient
	// FolderClient Creates a new inventory.FolderClient instance for access DB folder store.
	FolderClient() inventory.FolderClient
	// ResourceClient Creates a new inventory.ResourceClient instance for access DB resource store.
	ResourceClient() inventory.ResourceClient
	// ReviewClient Creates a new inventory.ReviewClient instance for access DB review store.
	ReviewClient() inventory.ReviewClient
	// FileSystem Get a singleton filesystem.FileSystem for blob storage.
	FileSystem() *filesystem.FileSystem
	// ForkWithLogger create a shallow copy of dependency with a new correlated logger, used as per-request dep.
	ForkWithLogger(ctx context.Context, l logging.Logger) context.Context
	// Shutdown the dependencies gracefully.
	Shutdown(ctx context.Context) error
}

type dependency struct {
	configProvider conf.ConfigProvider
	logger         logging.Logger
	dbClient       *gorm.DB
	kv             cache.Driver
	hashidEncoder  hashid.Encoder
	userClient     inventory.UserClient
	folderClient   inventory.FolderClient
	resourceClient inventory.ResourceClient
	reviewClient   inventory.ReviewClient
	fileSystem     *filesystem.FileSystem

	configPath string

	mu sync.Mutex
}

// NewDependency creates a new Dep instance for construct dependencies.
func NewDependency(opts ...Option) Dep {
	d := &dependency{}
	for _, o := range opts {
		o.apply(d)
	}

	return d
}

// FromContext retrieves a Dep instance from context.
func FromContext(ctx context.Context) Dep {
	return ctx.Value(DepCtx{}).(Dep)
}

func (d *dependency) ConfigProvider() conf.ConfigProvider {
	if d.configProvider != nil {
		return d.configProvider
	}

	if d.configPath == "" {
		d.panicError(ErrorConfigPathNotSet)
	}

	var err error
	d.configProvider, err = conf.NewIniConfigProvider(d.configPath, logging.NewConsoleLogger(logging.LevelInformational))
	if err != nil {
		d.panicError(err)
	}

	return d.configProvider
}

func (d *dependency) Logger() logging.Logger {
	if d.logger != nil {
		return d.logger
	}

	config := d.ConfigProvider()
	logLevel := logging.ParseLevel(config.System().LogLevel)
	if config.System().Debug {
		logLevel = logging.LevelDebug
	}

	d.logger = logging.NewConsoleLogger(logLevel)
	d.logger.Info("Logger initialized with LogLevel=%q.", logLevel)
	return d.logger
}

func (d *dependency) DBClient() *gorm.DB {
	if d.dbClient != nil {
		return d.dbClient
	}

	client, err := model.Open(d.Logger(), d.ConfigProvider())
	if err != nil {
		d.panicError(err)
	}

	if err := model.Migrate(client, d.Logger()); err != nil {
		d.panicError(err)
	}

	d.dbClient = client
	return d.dbClient
}

func (d *dependency) KV() cache.Driver {
	if d.kv != nil {
		return d.kv
	}

	config := d.ConfigProvider().Redis()
	if config.Server != "" {
		d.kv = cache.NewRedisStore(10, config)
	} else {
		memo := cache.NewMemoStore()
		if err := memo.Restore(util.DataPath(cacheFile)); err != nil {
			d.Logger().Warning("Failed to restore cache from disk: %s", err)
		}
		d.kv = memo
	}

	return d.kv
}

func (d *dependency) HashIDEncoder() hashid.Encoder {
	if d.hashidEncoder != nil {
		return d.hashidEncoder
	}

	encoder, err := hashid.New(d.ConfigProvider().System().HashIDSalt)
	if err != nil {
		d.panicError(err)
	}

	d.hashidEncoder = encoder
	return d.hashidEncoder
}

func (d *dependency) UserClient() inventory.UserClient {
	if d.userClient != nil {
		return d.userClient
	}

	return inventory.NewUserClient(d.DBClient())
}

func (d *dependency) FolderClient() inventory.FolderClient {
	if d.folderClient != nil {
		return d.folderClient
	}

	return inventory.NewFolderClient(d.DBClient())
}

func (d *dependency) ResourceClient() inventory.ResourceClient {
	if d.resourceClient != nil {
		return d.resourceClient
	}

	return inventory.NewResourceClient(d.DBClient())
}

func (d *dependency) ReviewClient() inventory.ReviewClient {
	if d.reviewClient != nil {
		return d.reviewClient
	}

	return inventory.NewReviewClient(d.DBClient())
}

func (d *dependency) FileSystem() *filesystem.FileSystem {
	if d.fileSystem != nil {
		return d.fileSystem
	}

	fs, err := filesystem.NewFileSystem(d.ConfigProvider(), d.Logger())
	if err != nil {
		d.panicError(err)
	}

	d.fileSystem = fs
	return d.fileSystem
}

func (d *dependency) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var shutdownErr error
	if d.kv != nil {
		if err := d.kv.Persist(util.DataPath(cacheFile)); err != nil {
			shutdownErr = fmt.Errorf("failed to persist cache: %w", err)
		}
	}

	if d.dbClient != nil {
		if err := d.dbClient.Close(); err != nil && shutdownErr == nil {
			shutdownErr = fmt.Errorf("failed to close database: %w", err)
		}
	}

	return shutdownErr
}

func (d *dependency) panicError(err error) {
	if d.logger != nil {
		d.logger.Panic("Fatal error in dependency initialization: %s", err)
	}

	panic(err)
}

func (d *dependency) ForkWithLogger(ctx context.Context, l logging.Logger) context.Context {
	dep := &dependencyCorrelated{
		l:          l,
		dependency: d,
	}
	return context.WithValue(ctx, DepCtx{}, dep)
}

type dependencyCorrelated struct {
	l logging.Logger
	*dependency
}

func (d *dependencyCorrelated) Logger() logging.Logger {
	return d.l
}
