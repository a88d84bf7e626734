package model

import "time"

// Folder 目录, ParentID 为空时为根目录
type Folder struct {
	ID        uint `gorm:"primary_key"`
	CreatedAt time.Time
	Name      string `gorm:"size:255;not null"`
	OwnerID   uint   `gorm:"index;not null"`
	ParentID  *uint  `gorm:"index"`
}

// IsRoot reports whether the folder has no parent.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}
