package models

type Album struct {
	ID            string  `gorm:"primaryKey;type:varchar(40)"`
	Name          string  `gorm:"type:varchar(300);not null"`
	Description   string  `gorm:"type:varchar(2000)"`
	CoverURI      *string `gorm:"type:varchar(2000)"` // must match the URI of an asset owned by this album
	ParentAlbumID *string `gorm:"type:varchar(40);index"`
	OrderIndex    float64 `gorm:"type:double;not null"`
	CreatedAt     int64
	UpdatedAt     int64

	// Computed on read, never persisted
	TotalAssets int64   `gorm:"-"`
	SubAlbums   []Album `gorm:"-"`
	Assets      []Asset `gorm:"-"`
	Cover       *Asset  `gorm:"-"`
}
