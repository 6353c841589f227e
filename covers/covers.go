// Package covers maintains the album cover invariant: a non-null cover URI
// always matches the URI of an asset currently owned by that album. Covers
// are keyed by content URI rather than asset ID on purpose — the app treats
// "the photo at this URI" as the identity of a cover — so resolving a cover
// back to full asset metadata needs a lookup, cached here.
package covers

import (
	"errors"
	"time"

	"organizer/db"
	"organizer/models"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// albumID|uri -> asset ID
var resolved = cmap.New[string]()

func cacheKey(albumID, uri string) string {
	return albumID + "|" + uri
}

// Resolve returns the asset owned by albumID whose URI matches uri, or nil
// when no such asset exists. Results are cached until the album's membership
// changes.
func Resolve(tx *gorm.DB, albumID, uri string) (*models.Asset, error) {
	handle := db.Handle(tx)
	if assetID, ok := resolved.Get(cacheKey(albumID, uri)); ok {
		var asset models.Asset
		err := handle.First(&asset, "id = ?", assetID).Error
		if err == nil && asset.AlbumID == albumID && asset.URI == uri {
			return &asset, nil
		}
		resolved.Remove(cacheKey(albumID, uri))
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	var asset models.Asset
	err := handle.
		Where("album_id = ? AND uri = ?", albumID, uri).
		Order("order_index asc").
		First(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	resolved.Set(cacheKey(albumID, uri), asset.ID)
	return &asset, nil
}

// Invalidate drops every cached resolution for albumID. Called whenever the
// album's asset membership changes.
func Invalidate(albumID string) {
	prefix := albumID + "|"
	for _, key := range resolved.Keys() {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			resolved.Remove(key)
		}
	}
}

// SetAutoCover sets the album's cover to its first asset (smallest order
// index). An album with no assets is left with a null cover.
func SetAutoCover(tx *gorm.DB, albumID string) error {
	return db.InTransaction(tx, func(tx *gorm.DB) error {
		return setAutoCover(tx, albumID)
	})
}

func setAutoCover(tx *gorm.DB, albumID string) error {
	var asset models.Asset
	err := tx.
		Where("album_id = ?", albumID).
		Order("order_index asc, added_at asc").
		First(&asset).Error
	var cover *string
	if err == nil {
		cover = &asset.URI
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return tx.Model(&models.Album{}).Where("id = ?", albumID).
		Updates(map[string]interface{}{
			"cover_uri":  cover,
			"updated_at": time.Now().Unix(),
		}).Error
}

// RepairIfInvalid restores the cover invariant for the given albums: any
// album whose cover URI no longer matches an owned asset gets its cover
// cleared and reassigned. Runs after every asset deletion and cross-album
// move, scoped to exactly the albums whose membership changed.
func RepairIfInvalid(tx *gorm.DB, albumIDs []string) error {
	for _, id := range albumIDs {
		Invalidate(id)
	}
	return db.InTransaction(tx, func(tx *gorm.DB) error {
		for _, albumID := range albumIDs {
			if err := repairOne(tx, albumID); err != nil {
				return err
			}
		}
		return nil
	})
}

func repairOne(tx *gorm.DB, albumID string) error {
	var album models.Album
	err := tx.First(&album, "id = ?", albumID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil // album itself deleted, nothing to repair
	}
	if err != nil {
		return err
	}
	if album.CoverURI == nil {
		return nil
	}
	var count int64
	err = tx.Model(&models.Asset{}).
		Where("album_id = ? AND uri = ?", albumID, *album.CoverURI).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	zap.L().Debug("cover invalid, reassigning", zap.String("album_id", albumID))
	return setAutoCover(tx, albumID)
}

// RepairAll sweeps every album. One-off corruption recovery, not part of
// steady-state operation.
func RepairAll(tx *gorm.DB) error {
	var ids []string
	if err := db.Handle(tx).Model(&models.Album{}).Pluck("id", &ids).Error; err != nil {
		return err
	}
	return RepairIfInvalid(tx, ids)
}
