package conf

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/edushare/edushare/pkg/logging"
	"github.com/edushare/edushare/pkg/util"
	"github.com/go-ini/ini"
	"github.com/go-playground/validator/v10"
)

const (
	envConfOverrideKey = "ES_CONF_"
	envSecretKey       = "SECRET_KEY"

	// InsecureSessionSecret is used only when no secret is configured anywhere.
	InsecureSessionSecret = "dev-secret-change-me"
)

type ConfigProvider interface {
	Database() *Database
	System() *System
	Redis() *Redis
	Cors() *Cors
	Upload() *Upload
	S3() *S3
	Cron() *Cron
}

// NewIniConfigProvider initializes a new Ini config file provider. A default config file
// will be created if the given path does not exist.
func NewIniConfigProvider(configPath string, l logging.Logger) (ConfigProvider, error) {
	if configPath == "" {
		return nil, errors.New("config path is empty")
	}

	if !util.Exists(configPath) {
		l.Info("Config file %q not found, creating a new one.", configPath)
		if err := writeDefaultConf(configPath); err != nil {
			return nil, err
		}
	}

	cfg, err := ini.Load(configPath, []byte(getOverrideConfFromEnv(l)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", configPath, err)
	}

	return newProvider(cfg, l)
}

// NewIniConfigProviderFromBytes parses an in-memory ini document, used by tests and the migrate command.
func NewIniConfigProviderFromBytes(content []byte, l logging.Logger) (ConfigProvider, error) {
	cfg, err := ini.Load(content, []byte(getOverrideConfFromEnv(l)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return newProvider(cfg, l)
}

func newProvider(cfg *ini.File, l logging.Logger) (*iniConfigProvider, error) {
	provider := &iniConfigProvider{
		database: *DatabaseConfig,
		system:   *SystemConfig,
		redis:    *RedisConfig,
		cors:     *CORSConfig,
		upload:   *UploadConfig,
		s3:       *S3Config,
		cron:     *CronConfig,
	}
	provider.upload.AllowedExtensions = append([]string{}, UploadConfig.AllowedExtensions...)

	sections := map[string]interface{}{
		"Database": &provider.database,
		"System":   &provider.system,
		"Redis":    &provider.redis,
		"CORS":     &provider.cors,
		"Upload":   &provider.upload,
		"S3":       &provider.s3,
		"Cron":     &provider.cron,
	}
	for sectionName, sectionStruct := range sections {
		if err := mapSection(cfg, sectionName, sectionStruct); err != nil {
			return nil, fmt.Errorf("failed to parse config section %q: %w", sectionName, err)
		}
	}

	// MapTo 会跳过空值, 显式留空的定时任务需单独读取以覆盖默认值
	cronSection := cfg.Section("Cron")
	for key, target := range map[string]*string{
		"GarbageCollect": &provider.cron.GarbageCollect,
		"OrphanCollect":  &provider.cron.OrphanCollect,
	} {
		if cronSection.HasKey(key) {
			*target = strings.TrimSpace(cronSection.Key(key).String())
		}
	}

	for i, ext := range provider.upload.AllowedExtensions {
		provider.upload.AllowedExtensions[i] = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	}

	if provider.upload.Policy == S3Policy && provider.s3.Bucket == "" {
		return nil, errors.New("config section \"S3\": Bucket is required when Upload.Policy is s3")
	}

	provider.system.SessionSecret = util.EnvStr(envSecretKey, provider.system.SessionSecret)
	if provider.system.SessionSecret == "" {
		l.Warning("No session secret configured, falling back to the insecure default. Set %s or System.SessionSecret.", envSecretKey)
		provider.system.SessionSecret = InsecureSessionSecret
	}

	return provider, nil
}

type iniConfigProvider struct {
	database Database
	system   System
	redis    Redis
	cors     Cors
	upload   Upload
	s3       S3
	cron     Cron
}

func (i *iniConfigProvider) Database() *Database {
	return &i.database
}

func (i *iniConfigProvider) System() *System {
	return &i.system
}

func (i *iniConfigProvider) Redis() *Redis {
	return &i.redis
}

func (i *iniConfigProvider) Cors() *Cors {
	return &i.cors
}

func (i *iniConfigProvider) Upload() *Upload {
	return &i.upload
}

func (i *iniConfigProvider) S3() *S3 {
	return &i.s3
}

func (i *iniConfigProvider) Cron() *Cron {
	return &i.cron
}

const defaultConf = `[System]
Debug = false
Listen = :5000
LogLevel = info
SessionSecret = {SessionSecret}
HashIDSalt = {HashIDSalt}

[Database]
Type = sqlite
DBFile = edushare.db

[Upload]
Policy = local
SavePath = uploads
`

func writeDefaultConf(configPath string) error {
	confContent := util.Replace(map[string]string{
		"{SessionSecret}": util.RandStringRunes(64),
		"{HashIDSalt}":    util.RandStringRunes(64),
	}, defaultConf)

	f, err := util.CreatNestedFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(confContent); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// mapSection 将配置文件的 Section 映射到结构体上
func mapSection(cfg *ini.File, section string, confStruct interface{}) error {
	err := cfg.Section(section).MapTo(confStruct)
	if err != nil {
		return err
	}

	// 验证合法性
	validate := validator.New()
	return validate.Struct(confStruct)
}

func getOverrideConfFromEnv(l logging.Logger) string {
	confMaps := make(map[string]map[string]string)
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envConfOverrideKey) {
			continue
		}

		kv := strings.SplitN(env, "=", 2)
		configKey := strings.TrimPrefix(kv[0], envConfOverrideKey)
		sectionKey := strings.SplitN(configKey, ".", 2)
		if len(kv) != 2 || len(sectionKey) != 2 {
			l.Warning("Ignore malformed config override %q", kv[0])
			continue
		}

		if confMaps[sectionKey[0]] == nil {
			confMaps[sectionKey[0]] = make(map[string]string)
		}

		confMaps[sectionKey[0]][sectionKey[1]] = kv[1]
		l.Info("Override config %q", configKey)
	}

	var sb strings.Builder
	for section, kvs := range confMaps {
		sb.WriteString(fmt.Sprintf("[%s]\n", section))
		for k, v := range kvs {
			sb.WriteString(fmt.Sprintf("%s = %s\n", k, v))
		}
	}

	return sb.String()
}
