package engine

import (
	"fmt"
	"time"

	"organizer/covers"
	"organizer/db"
	"organizer/errs"
	"organizer/models"
	"organizer/ordering"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MoveResult reports which assets actually moved and every album whose
// membership changed (sources and target), so callers can invalidate cached
// counts and covers for those albums and their ancestors.
type MoveResult struct {
	MovedAssetIDs    []string
	AffectedAlbumIDs []string
	RepairErr        error
}

// MoveAssets relocates the given assets into targetAlbumID atomically. The
// assets keep their relative order from the argument slice via strictly
// increasing order indices allocated in the target. On any failure before
// commit the whole move rolls back — no asset is ever partially moved.
//
// Cover repair for the source and target albums runs after commit; it is
// best-effort cleanup, and its failure (reported in RepairErr) never undoes
// the move. RepairAll recovers later.
func MoveAssets(assetIDs []string, targetAlbumID string) (MoveResult, error) {
	result := MoveResult{MovedAssetIDs: []string{}, AffectedAlbumIDs: []string{}}
	if len(assetIDs) == 0 {
		return result, nil
	}
	err := db.InTransaction(nil, func(tx *gorm.DB) error {
		if err := mustAlbumExist(tx, targetAlbumID); err != nil {
			return err
		}
		var owned []models.Asset
		err := tx.Select("id, album_id").Where("id IN ?", assetIDs).Find(&owned).Error
		if err != nil {
			return err
		}
		byID := map[string]*models.Asset{}
		sources := map[string]bool{}
		for i := range owned {
			byID[owned[i].ID] = &owned[i]
			if owned[i].AlbumID != targetAlbumID {
				sources[owned[i].AlbumID] = true
			}
		}
		if len(byID) == 0 {
			return fmt.Errorf("none of the assets exist: %w", errs.ErrNotFound)
		}
		base, err := ordering.NextAssetIndex(tx, targetAlbumID)
		if err != nil {
			return err
		}
		now := time.Now().Unix()
		// Walk the requested order so selection order survives the move
		for _, id := range assetIDs {
			if _, ok := byID[id]; !ok {
				continue
			}
			err := tx.Model(&models.Asset{}).Where("id = ?", id).
				Updates(map[string]interface{}{
					"album_id":    targetAlbumID,
					"order_index": base,
					"updated_at":  now,
				}).Error
			if err != nil {
				return err
			}
			base += ordering.Step
			result.MovedAssetIDs = append(result.MovedAssetIDs, id)
		}
		for source := range sources {
			result.AffectedAlbumIDs = append(result.AffectedAlbumIDs, source)
		}
		result.AffectedAlbumIDs = append(result.AffectedAlbumIDs, targetAlbumID)
		return nil
	})
	if err != nil {
		return MoveResult{}, err
	}
	if err := covers.RepairIfInvalid(nil, result.AffectedAlbumIDs); err != nil {
		zap.L().Warn("cover repair after move failed", zap.Error(err))
		result.RepairErr = fmt.Errorf("%w: %v", errs.ErrRepair, err)
	}
	zap.L().Debug("assets moved",
		zap.Int("count", len(result.MovedAssetIDs)),
		zap.String("target", targetAlbumID))
	return result, nil
}

// RepairAllCovers sweeps every album, restoring the cover invariant. Used to
// recover from a failed post-commit repair.
func RepairAllCovers() error {
	return covers.RepairAll(nil)
}

// NormalizeAlbumOrder rewrites the sibling order indices under parentID to
// recover midpoint-insertion headroom.
func NormalizeAlbumOrder(parentID *string) error {
	return ordering.NormalizeAlbumOrder(nil, parentID)
}

// NormalizeAssetOrder rewrites the order indices of albumID's assets.
func NormalizeAssetOrder(albumID string) error {
	return ordering.NormalizeAssetOrder(nil, albumID)
}
