package conf

type DBType string

var (
	SQLiteDB   DBType = "sqlite"
	SQLite3DB  DBType = "sqlite3"
	MySqlDB    DBType = "mysql"
	PostgresDB DBType = "postgres"
)

// Database 数据库
type Database struct {
	Type        DBType `validate:"omitempty,oneof=sqlite sqlite3 mysql postgres"`
	User        string
	Password    string
	Host        string
	Name        string
	TablePrefix string
	DBFile      string
	Port        int `validate:"gte=0"`
	Charset     string
	// SSLMode is passed through to postgres
	SSLMode string
}

// System 系统通用配置
type System struct {
	Listen        string `validate:"required"`
	Debug         bool
	SessionSecret string
	HashIDSalt    string
	GracePeriod   int    `validate:"gte=0"`
	LogLevel      string `validate:"oneof=debug info warning error"`
}

// Redis 配置, Server 为空时使用内存缓存
type Redis struct {
	Network  string
	Server   string
	User     string
	Password string
	DB       string
}

// 跨域配置
type Cors struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	AllowCredentials bool
	ExposeHeaders    []string
	SameSite         string `validate:"oneof=Default None Lax Strict"`
	Secure           bool
}

type StoragePolicy string

const (
	LocalPolicy StoragePolicy = "local"
	S3Policy    StoragePolicy = "s3"
)

// Upload controls accepted files and where their bytes go.
type Upload struct {
	Policy            StoragePolicy `validate:"oneof=local s3"`
	SavePath          string        `validate:"required"`
	MaxSize           int64         `validate:"gte=0"`
	AllowedExtensions []string      `validate:"min=1"`
	// DownloadSpeed in bytes per second, 0 means unlimited.
	DownloadSpeed int64 `validate:"gte=0"`
	// OrphanGracePeriod in seconds before an unreferenced blob is collected.
	OrphanGracePeriod int `validate:"gte=0"`
}

// S3 兼容存储
type S3 struct {
	Endpoint       string
	Region         string
	Bucket         string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
}

// Cron 定时任务表达式, 留空则禁用
type Cron struct {
	GarbageCollect string
	OrphanCollect  string
}

// RedisConfig Redis服务器配置
var RedisConfig = &Redis{
	Network:  "tcp",
	Server:   "",
	Password: "",
	DB:       "0",
}

// DatabaseConfig 数据库配置
var DatabaseConfig = &Database{
	Type:    SQLiteDB,
	Charset: "utf8mb4",
	DBFile:  "edushare.db",
	Port:    3306,
	SSLMode: "disable",
}

// SystemConfig 系统公用配置
var SystemConfig = &System{
	Debug:       false,
	Listen:      ":5000",
	GracePeriod: 10,
	LogLevel:    "info",
}

// CORSConfig 跨域配置
var CORSConfig = &Cors{
	AllowOrigins:     []string{"UNSET"},
	AllowMethods:     []string{"POST", "GET", "OPTIONS"},
	AllowHeaders:     []string{"Cookie", "Content-Length", "Content-Type", "Accept", "X-Es-Correlation-Id"},
	AllowCredentials: false,
	ExposeHeaders:    nil,
	SameSite:         "Default",
	Secure:           false,
}

// DefaultExtensions 默认允许上传的扩展名
var DefaultExtensions = []string{
	"pdf", "txt", "md", "zip", "mp4", "avi", "mkv", "mov", "doc", "docx", "ppt", "pptx",
	"xls", "xlsx", "csv", "png", "jpg", "jpeg", "gif", "webm", "webp",
}

// UploadConfig 上传配置
var UploadConfig = &Upload{
	Policy:            LocalPolicy,
	SavePath:          "uploads",
	MaxSize:           0,
	AllowedExtensions: DefaultExtensions,
	DownloadSpeed:     0,
	OrphanGracePeriod: 3600,
}

var S3Config = &S3{
	Region: "us-east-1",
}

var CronConfig = &Cron{
	GarbageCollect: "@every 30m",
	OrphanCollect:  "@every 6h",
}
