package models

// TrackingState is a singleton row; the poller treats a missing row as "not tracking".
type TrackingState struct {
	ID         uint64 `gorm:"primaryKey;comment:固定为1"`
	IsTracking bool   `gorm:"not null;default:false;comment:是否开启跟踪"`
}

func (TrackingState) TableName() string {
	return "tracking_state"
}
