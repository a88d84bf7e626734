package model

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/edushare/edushare/pkg/conf"
	"github.com/edushare/edushare/pkg/logging"
	"github.com/edushare/edushare/pkg/util"
	_ "github.com/glebarez/go-sqlite"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jinzhu/gorm"
	_ "github.com/lib/pq"
)

const memoryDSN = ":memory:"

// Open 根据配置初始化数据库连接
func Open(l logging.Logger, config conf.ConfigProvider) (*gorm.DB, error) {
	dbConfig := config.Database()
	confDBType := dbConfig.Type
	if confDBType == conf.SQLite3DB || confDBType == "" {
		confDBType = conf.SQLiteDB
	}

	var (
		err     error
		sqlDB   *sql.DB
		dialect string
	)

	switch confDBType {
	case conf.SQLiteDB:
		dbFile := dbConfig.DBFile
		if dbFile != memoryDSN {
			dbFile = util.RelativePath(dbFile)
		}
		l.Info("Connect to SQLite database %q.", dbFile)
		dialect = "sqlite3"
		sqlDB, err = sql.Open("sqlite", sqliteDSN(dbFile))
	case conf.PostgresDB:
		l.Info("Connect to Postgres database %q.", dbConfig.Host)
		dialect = "postgres"
		sqlDB, err = sql.Open("postgres", fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
			dbConfig.Host,
			dbConfig.User,
			dbConfig.Password,
			dbConfig.Name,
			dbConfig.Port,
			dbConfig.SSLMode))
	case conf.MySqlDB:
		l.Info("Connect to MySQL database %q.", dbConfig.Host)
		dialect = "mysql"
		sqlDB, err = sql.Open("mysql", fmt.Sprintf("%s:%s@(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
			dbConfig.User,
			dbConfig.Password,
			dbConfig.Host,
			dbConfig.Port,
			dbConfig.Name,
			dbConfig.Charset))
	default:
		return nil, fmt.Errorf("unsupported database type %q", confDBType)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(50)
	if confDBType == conf.SQLiteDB {
		// 单连接, 内存数据库在连接关闭后即丢失
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Second * 30)
	}

	prefix := dbConfig.TablePrefix
	gorm.DefaultTableNameHandler = func(db *gorm.DB, defaultTableName string) string {
		return prefix + defaultTableName
	}

	db, err := gorm.Open(dialect, sqlDB)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	db.SetLogger(logging.GormLogger{L: l})
	db.LogMode(config.System().Debug)

	return db, nil
}

func sqliteDSN(file string) string {
	if file == memoryDSN {
		return file
	}
	return "file:" + file + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}
