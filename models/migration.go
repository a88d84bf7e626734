package model

import (
	"fmt"

	"github.com/edushare/edushare/pkg/logging"
	"github.com/jinzhu/gorm"
)

// Migrate 执行数据迁移
func Migrate(db *gorm.DB, l logging.Logger) error {
	l.Info("Start auto migration...")

	if db.Dialect().GetName() == "mysql" {
		db = db.Set("gorm:table_options", "ENGINE=InnoDB")
	}

	if err := db.AutoMigrate(&User{}, &Folder{}, &Resource{}, &Review{}).Error; err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}

	l.Info("Auto migration finished.")
	return nil
}
