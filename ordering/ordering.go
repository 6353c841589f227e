// Package ordering allocates fractional order-index values for sibling
// albums and for assets within an album. Indices are spaced Step apart so
// items can be inserted between two siblings by taking the midpoint, without
// renumbering anything else.
package ordering

import (
	"database/sql"

	"organizer/db"
	"organizer/models"

	"gorm.io/gorm"
)

const Step = 1000.0

// NextAlbumIndex returns the order index for a new album appended under
// parentID (nil for top-level): max existing sibling index + Step.
func NextAlbumIndex(tx *gorm.DB, parentID *string) (float64, error) {
	q := db.Handle(tx).Model(&models.Album{}).Select("max(order_index)")
	if parentID == nil {
		q = q.Where("parent_album_id IS NULL")
	} else {
		q = q.Where("parent_album_id = ?", *parentID)
	}
	return nextFrom(q)
}

// NextAssetIndex returns the order index for a new asset appended to albumID.
func NextAssetIndex(tx *gorm.DB, albumID string) (float64, error) {
	q := db.Handle(tx).Model(&models.Asset{}).Select("max(order_index)").Where("album_id = ?", albumID)
	return nextFrom(q)
}

func nextFrom(q *gorm.DB) (float64, error) {
	var max sql.NullFloat64
	if err := q.Scan(&max).Error; err != nil {
		return 0, err
	}
	if !max.Valid {
		return Step, nil
	}
	return max.Float64 + Step, nil
}

// Between returns the midpoint of two sibling indices. Repeated midpoint
// insertion approaches float resolution eventually; Normalize* is the
// recovery path.
func Between(a, b float64) float64 {
	return (a + b) / 2
}

// NormalizeAlbumOrder rewrites the order indices of all albums under parentID
// to Step, 2*Step, ... in their current order. Maintenance operation, never
// triggered automatically.
func NormalizeAlbumOrder(tx *gorm.DB, parentID *string) error {
	return db.InTransaction(tx, func(tx *gorm.DB) error {
		q := tx.Model(&models.Album{}).Order("order_index asc, created_at asc")
		if parentID == nil {
			q = q.Where("parent_album_id IS NULL")
		} else {
			q = q.Where("parent_album_id = ?", *parentID)
		}
		var ids []string
		if err := q.Pluck("id", &ids).Error; err != nil {
			return err
		}
		for i, id := range ids {
			err := tx.Model(&models.Album{}).Where("id = ?", id).
				Update("order_index", float64(i+1)*Step).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// NormalizeAssetOrder rewrites the order indices of all assets in albumID to
// Step, 2*Step, ... in their current order.
func NormalizeAssetOrder(tx *gorm.DB, albumID string) error {
	return db.InTransaction(tx, func(tx *gorm.DB) error {
		var ids []string
		err := tx.Model(&models.Asset{}).
			Where("album_id = ?", albumID).
			Order("order_index asc, added_at asc").
			Pluck("id", &ids).Error
		if err != nil {
			return err
		}
		for i, id := range ids {
			err := tx.Model(&models.Asset{}).Where("id = ?", id).
				Update("order_index", float64(i+1)*Step).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
