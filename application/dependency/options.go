package dependency

import (
	"github.com/edushare/edushare/inventory"
	"github.com/edushare/edushare/pkg/cache"
	"github.com/edushare/edushare/pkg/conf"
	"github.com/edushare/edushare/pkg/filesystem"
	"github.com/edushare/edushare/pkg/hashid"
	"github.com/edushare/edushare/pkg/logging"
	"github.com/jinzhu/gorm"
)

// Option 依赖的额外设置
type Option interface {
	apply(*dependency)
}

type optionFunc func(*dependency)

func (f optionFunc) apply(o *dependency) {
	f(o)
}

// WithConfigPath Set the path of the config file.
func WithConfigPath(p string) Option {
	return optionFunc(func(o *dependency) {
		o.configPath = p
	})
}

// WithLogger Set the default logging.
func WithLogger(l logging.Logger) Option {
	return optionFunc(func(o *dependency) {
		o.logger = l
	})
}

// WithConfigProvider Set the default config provider.
func WithConfigProvider(c conf.ConfigProvider) Option {
	return optionFunc(func(o *dependency) {
		o.configProvider = c
	})
}

// WithDBClient Set the default database client, it is used as is without migration.
func WithDBClient(c *gorm.DB) Option {
	return optionFunc(func(o *dependency) {
		o.dbClient = c
	})
}

// WithKV Set the default KV store driver.
func WithKV(c cache.Driver) Option {
	return optionFunc(func(o *dependency) {
		o.kv = c
	})
}

// WithHashIDEncoder Set the default hash id encoder.
func WithHashIDEncoder(e hashid.Encoder) Option {
	return optionFunc(func(o *dependency) {
		o.hashidEncoder = e
	})
}

// WithFileSystem Set the default blob file system.
func WithFileSystem(fs *filesystem.FileSystem) Option {
	return optionFunc(func(o *dependency) {
		o.fileSystem = fs
	})
}

// WithUserClient Set the default user client.
func WithUserClient(c inventory.UserClient) Option {
	return optionFunc(func(o *dependency) {
		o.userClient = c
	})
}

// WithResourceClient Set the default resource client.
func WithResourceClient(c inventory.ResourceClient) Option {
	return optionFunc(func(o *dependency) {
		o.resourceClient = c
	})
}
