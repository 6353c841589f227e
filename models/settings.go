package models

// Settings is a singleton record; SettingsID is the only row ever written.
const SettingsID uint64 = 1

type Settings struct {
	ID          uint64 `gorm:"primaryKey"`
	Lang        string `gorm:"type:varchar(20)"`
	CaptionOpen bool   `gorm:"not null;default:0"`
	UpdatedAt   int64
}
