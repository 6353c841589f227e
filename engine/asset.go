package engine

import (
	"errors"
	"fmt"
	"time"

	"organizer/covers"
	"organizer/db"
	"organizer/errs"
	"organizer/models"
	"organizer/ordering"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssetUpdate is a partial update: only non-nil fields are applied.
type AssetUpdate struct {
	Caption    *string
	Favourite  *bool
	Hidden     *bool
	LocalURI   *string
	OrderIndex *float64
}

// DeleteResult reports what a bulk delete removed and which albums lost
// assets, so callers can invalidate cached aggregates for them.
type DeleteResult struct {
	DeletedAssetIDs  []string
	AffectedAlbumIDs []string
	RepairErr        error
}

// InsertAssets stores the given assets in one transaction. Every asset must
// name an existing owning album; missing IDs are filled in, and order indices
// are allocated per album so the given order is preserved. Nothing is
// inserted if any asset fails validation.
func InsertAssets(assets []models.Asset) ([]models.Asset, error) {
	if len(assets) == 0 {
		return assets, nil
	}
	err := db.InTransaction(nil, func(tx *gorm.DB) error {
		next := map[string]float64{}
		for i := range assets {
			a := &assets[i]
			if a.AlbumID == "" {
				return fmt.Errorf("asset %d has no owning album: %w", i, errs.ErrConstraint)
			}
			if _, ok := next[a.AlbumID]; !ok {
				if err := mustAlbumExist(tx, a.AlbumID); err != nil {
					return err
				}
				index, err := ordering.NextAssetIndex(tx, a.AlbumID)
				if err != nil {
					return err
				}
				next[a.AlbumID] = index
			}
			if a.ID == "" {
				a.ID = uuid.NewString()
			}
			a.OrderIndex = next[a.AlbumID]
			next[a.AlbumID] += ordering.Step
			now := time.Now().Unix()
			if a.AddedAt == 0 {
				a.AddedAt = now
			}
			a.UpdatedAt = now
		}
		return tx.Create(&assets).Error
	})
	if err != nil {
		return nil, err
	}
	for albumID := range distinctAlbums(assets) {
		covers.Invalidate(albumID)
	}
	return assets, nil
}

// GetAssetByID returns the asset, or (nil, nil) when it does not exist.
func GetAssetByID(id string) (*models.Asset, error) {
	var asset models.Asset
	err := db.Instance.First(&asset, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// GetAssetByURI returns the first asset with the given content URI, matching
// the URI-based identity used for covers.
func GetAssetByURI(uri string) (*models.Asset, error) {
	var asset models.Asset
	err := db.Instance.
		Where("uri = ?", uri).
		Order("added_at asc").
		First(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// UpdateAsset applies a partial update and returns the stored asset.
func UpdateAsset(id string, update AssetUpdate) (*models.Asset, error) {
	var asset models.Asset
	err := db.InTransaction(nil, func(tx *gorm.DB) error {
		err := tx.First(&asset, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrNotFound
		}
		if err != nil {
			return err
		}
		changes := map[string]interface{}{}
		if update.Caption != nil {
			changes["caption"] = *update.Caption
		}
		if update.Favourite != nil {
			changes["favourite"] = *update.Favourite
		}
		if update.Hidden != nil {
			changes["hidden"] = *update.Hidden
		}
		if update.LocalURI != nil {
			changes["local_uri"] = *update.LocalURI
		}
		if update.OrderIndex != nil {
			changes["order_index"] = *update.OrderIndex
		}
		if len(changes) == 0 {
			return nil
		}
		changes["updated_at"] = time.Now().Unix()
		if err := tx.Model(&asset).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&asset, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// DeleteAssets removes the given assets in one transaction, then repairs the
// covers of every album that lost assets. IDs that do not exist are skipped;
// deleting an empty or fully-unknown set is a successful no-op with no
// deleted IDs. The repair step runs after commit and never undoes the delete;
// its failure is reported in RepairErr.
func DeleteAssets(ids []string) (DeleteResult, error) {
	result := DeleteResult{DeletedAssetIDs: []string{}, AffectedAlbumIDs: []string{}}
	if len(ids) == 0 {
		return result, nil
	}
	err := db.InTransaction(nil, func(tx *gorm.DB) error {
		var owned []models.Asset
		err := tx.Select("id, album_id").Where("id IN ?", ids).Find(&owned).Error
		if err != nil {
			return err
		}
		if len(owned) == 0 {
			return nil
		}
		albums := map[string]bool{}
		for _, a := range owned {
			result.DeletedAssetIDs = append(result.DeletedAssetIDs, a.ID)
			if !albums[a.AlbumID] {
				albums[a.AlbumID] = true
				result.AffectedAlbumIDs = append(result.AffectedAlbumIDs, a.AlbumID)
			}
		}
		return tx.Where("id IN ?", result.DeletedAssetIDs).Delete(&models.Asset{}).Error
	})
	if err != nil {
		return DeleteResult{}, err
	}
	if len(result.AffectedAlbumIDs) > 0 {
		if err := covers.RepairIfInvalid(nil, result.AffectedAlbumIDs); err != nil {
			zap.L().Warn("cover repair after delete failed", zap.Error(err))
			result.RepairErr = fmt.Errorf("%w: %v", errs.ErrRepair, err)
		}
	}
	return result, nil
}

// DeleteAsset removes a single asset, returning its ID. Unlike the bulk
// variant, a missing ID is ErrNotFound rather than a no-op.
func DeleteAsset(id string) (string, error) {
	var asset models.Asset
	err := db.Instance.Select("id").First(&asset, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errs.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	result, err := DeleteAssets([]string{id})
	if err != nil {
		return "", err
	}
	if len(result.DeletedAssetIDs) == 0 {
		return "", errs.ErrNotFound
	}
	return id, nil
}

// ExistingAssetIDs returns which of the candidate IDs are already stored.
// Import code uses this to skip media that was brought in before.
func ExistingAssetIDs(candidates []string) ([]string, error) {
	existing := []string{}
	if len(candidates) == 0 {
		return existing, nil
	}
	err := db.Instance.Model(&models.Asset{}).
		Where("id IN ?", candidates).
		Pluck("id", &existing).Error
	return existing, err
}

func distinctAlbums(assets []models.Asset) map[string]bool {
	albums := map[string]bool{}
	for _, a := range assets {
		albums[a.AlbumID] = true
	}
	return albums
}
