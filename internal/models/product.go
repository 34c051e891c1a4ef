package models

import "time"

type Product struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement;comment:商品ID"`
	URL          string    `gorm:"type:text;uniqueIndex;not null;comment:商品链接"`
	Name         string    `gorm:"type:text;not null;comment:商品名称"`
	ImageURL     string    `gorm:"type:text;comment:商品图片链接"`
	CurrentPrice int64     `gorm:"not null;comment:当前价格(最小货币单位)"`
	DateAdded    time.Time `gorm:"type:date;not null;comment:开始跟踪日期"`
	Users        []User    `gorm:"many2many:product_users;comment:订阅用户"`
}

func (Product) TableName() string {
	return "products"
}
