package models

import "time"

type PriceObservation struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement;comment:价格记录ID"`
	ProductID  uint64    `gorm:"index;not null;comment:商品ID"`
	Product    Product   `gorm:"constraint:OnDelete:CASCADE"`
	ObservedOn time.Time `gorm:"type:date;index;not null;comment:采集日期"`
	Price      int64     `gorm:"not null;comment:采集价格(最小货币单位)"`
}

func (PriceObservation) TableName() string {
	return "price_observations"
}
