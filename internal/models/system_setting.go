package models

import (
	"time"

	"gorm.io/datatypes"
)

type SystemSetting struct {
	Key         string         `gorm:"primaryKey;type:text;comment:配置键"`
	Value       datatypes.JSON `gorm:"type:jsonb;not null;comment:配置值"`
	Description string         `gorm:"type:text;comment:配置说明"`
	CreatedAt   time.Time      `gorm:"type:timestamptz;comment:创建时间"`
	UpdatedAt   time.Time      `gorm:"type:timestamptz;comment:更新时间"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}
