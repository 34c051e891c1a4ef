package models

import "time"

type User struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement;comment:用户ID"`
	Email     string    `gorm:"type:text;uniqueIndex;not null;comment:邮箱地址"`
	Name      string    `gorm:"type:text;comment:用户名"`
	CreatedAt time.Time `gorm:"type:timestamptz;not null;comment:创建时间"`
}

func (User) TableName() string {
	return "users"
}
