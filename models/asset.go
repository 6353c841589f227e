package models

const (
	MediaTypePhoto = "photo"
	MediaTypeVideo = "video"
)

type Asset struct {
	ID           string `gorm:"primaryKey;type:varchar(300)"` // usually the media-library identifier
	AlbumID      string `gorm:"type:varchar(40);not null;index:asset_album_order,priority:1"`
	Album        Album  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	URI          string `gorm:"type:varchar(2000)"`
	LocalURI     string `gorm:"type:varchar(2000)"`
	MediaType    string `gorm:"type:varchar(10)"`
	Width        uint16
	Height       uint16
	Duration     uint32 // milliseconds, zero for photos
	Orientation  int
	CapturedAt   int64
	ModifiedAt   int64
	Favourite    bool `gorm:"not null;default:0"`
	Hidden       bool `gorm:"not null;default:0"`
	Exif         string
	GpsLat       *float64 `gorm:"type:double"`
	GpsLong      *float64 `gorm:"type:double"`
	GpsAltitude  *float64 `gorm:"type:double"`
	GpsHeading   *float64 `gorm:"type:double"`
	GpsSpeed     *float64 `gorm:"type:double"`
	GpsTimestamp *int64
	Caption      string  `gorm:"type:varchar(2000)"`
	OrderIndex   float64 `gorm:"type:double;not null;index:asset_album_order,priority:2"`
	AddedAt      int64
	UpdatedAt    int64
}
