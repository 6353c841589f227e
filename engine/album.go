package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"organizer/covers"
	"organizer/db"
	"organizer/errs"
	"organizer/models"
	"organizer/ordering"
	"organizer/tree"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AlbumUpdate is a partial update: only non-nil fields are applied.
// ClearCover and ClearParent set the corresponding reference to null.
type AlbumUpdate struct {
	Name          *string
	Description   *string
	CoverURI      *string
	ClearCover    bool
	ParentAlbumID *string
	ClearParent   bool
	OrderIndex    *float64
}

// CreateAlbum creates an album under parentID (nil for top-level) and returns
// it. The parent must already exist — an album can never be created pointing
// at a missing parent, which is what keeps the tree acyclic on creation.
func CreateAlbum(name, description string, parentID *string) (*models.Album, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errs.ErrEmptyName
	}
	album := models.Album{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
	}
	err := db.InTransaction(nil, func(tx *gorm.DB) error {
		if parentID != nil {
			if err := mustAlbumExist(tx, *parentID); err != nil {
				return err
			}
			album.ParentAlbumID = parentID
		}
		index, err := ordering.NextAlbumIndex(tx, parentID)
		if err != nil {
			return err
		}
		album.OrderIndex = index
		now := time.Now().Unix()
		album.CreatedAt = now
		album.UpdatedAt = now
		return tx.Create(&album).Error
	})
	if err != nil {
		return nil, err
	}
	zap.L().Debug("album created", zap.String("id", album.ID), zap.String("name", album.Name))
	return &album, nil
}

// GetAlbumByID returns the album enriched with its direct sub-albums (each
// carrying its own transitive asset count), its direct assets in order, its
// resolved cover, and its own transitive count. A missing ID yields (nil, nil).
func GetAlbumByID(id string) (*models.Album, error) {
	var album models.Album
	err := db.Instance.First(&album, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := enrichAlbum(&album); err != nil {
		return nil, err
	}
	return &album, nil
}

// TopLevelAlbums returns all albums without a parent, each annotated with its
// transitive asset count and resolved cover.
func TopLevelAlbums() ([]models.Album, error) {
	albums, err := tree.TopLevelAlbums(nil)
	if err != nil {
		return nil, err
	}
	for i := range albums {
		if err := annotateAlbum(&albums[i]); err != nil {
			return nil, err
		}
	}
	return albums, nil
}

// GetParentAlbum returns the parent of id, or nil for top-level albums.
func GetParentAlbum(id string) (*models.Album, error) {
	parent, err := tree.ParentOf(nil, id)
	if err != nil || parent == nil {
		return parent, err
	}
	if err := annotateAlbum(parent); err != nil {
		return nil, err
	}
	return parent, nil
}

// UpdateAlbum applies a partial update. Reparenting onto the album itself or
// any of its descendants is rejected, as is a cover URI that does not match
// an owned asset.
func UpdateAlbum(id string, update AlbumUpdate) (*models.Album, error) {
	var album models.Album
	err := db.InTransaction(nil, func(tx *gorm.DB) error {
		err := tx.First(&album, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrNotFound
		}
		if err != nil {
			return err
		}
		changes := map[string]interface{}{}
		if update.Name != nil {
			if strings.TrimSpace(*update.Name) == "" {
				return errs.ErrEmptyName
			}
			changes["name"] = *update.Name
		}
		if update.Description != nil {
			changes["description"] = *update.Description
		}
		if update.ClearCover {
			changes["cover_uri"] = nil
		} else if update.CoverURI != nil {
			var count int64
			err := tx.Model(&models.Asset{}).
				Where("album_id = ? AND uri = ?", id, *update.CoverURI).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count == 0 {
				return fmt.Errorf("cover uri has no matching asset in album %s: %w", id, errs.ErrConstraint)
			}
			changes["cover_uri"] = *update.CoverURI
		}
		if update.ClearParent {
			changes["parent_album_id"] = nil
		} else if update.ParentAlbumID != nil {
			if err := mustAlbumExist(tx, *update.ParentAlbumID); err != nil {
				return err
			}
			cyclic, err := tree.IsAncestor(tx, id, *update.ParentAlbumID)
			if err != nil {
				return err
			}
			if cyclic {
				return fmt.Errorf("reparent %s under %s: %w", id, *update.ParentAlbumID, errs.ErrCycle)
			}
			changes["parent_album_id"] = *update.ParentAlbumID
		}
		if update.OrderIndex != nil {
			changes["order_index"] = *update.OrderIndex
		}
		if len(changes) == 0 {
			return nil
		}
		changes["updated_at"] = time.Now().Unix()
		if err := tx.Model(&album).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&album, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	if err := enrichAlbum(&album); err != nil {
		return nil, err
	}
	return &album, nil
}

// DeleteAlbum removes the album and its whole subtree — descendant albums and
// every asset they own — in one transaction. Returns the deleted ID, or
// ErrNotFound when the album does not exist.
func DeleteAlbum(id string) (string, error) {
	err := db.InTransaction(nil, func(tx *gorm.DB) error {
		if err := mustAlbumExist(tx, id); err != nil {
			if errors.Is(err, errs.ErrConstraint) {
				return errs.ErrNotFound
			}
			return err
		}
		descendants, err := tree.CollectDescendantIDs(tx, id)
		if err != nil {
			return err
		}
		ids := append([]string{id}, descendants...)
		if err := tx.Where("album_id IN ?", ids).Delete(&models.Asset{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.Album{}).Error; err != nil {
			return err
		}
		for _, albumID := range ids {
			covers.Invalidate(albumID)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	zap.L().Debug("album deleted", zap.String("id", id))
	return id, nil
}

func mustAlbumExist(tx *gorm.DB, id string) error {
	var count int64
	if err := tx.Model(&models.Album{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("album %s does not exist: %w", id, errs.ErrConstraint)
	}
	return nil
}

// enrichAlbum fills the computed fields for a detail view: sub-albums with
// their own counts, ordered assets, resolved cover, transitive count.
func enrichAlbum(album *models.Album) error {
	if err := annotateAlbum(album); err != nil {
		return err
	}
	var children []models.Album
	err := db.Instance.
		Where("parent_album_id = ?", album.ID).
		Order("order_index asc, created_at asc").
		Find(&children).Error
	if err != nil {
		return err
	}
	for i := range children {
		if err := annotateAlbum(&children[i]); err != nil {
			return err
		}
	}
	album.SubAlbums = children
	var assets []models.Asset
	err = db.Instance.
		Where("album_id = ?", album.ID).
		Order("order_index asc, added_at asc").
		Find(&assets).Error
	if err != nil {
		return err
	}
	album.Assets = assets
	return nil
}

// annotateAlbum attaches the transitive asset count and the display cover.
// When no cover is set but the album has assets, the first asset stands in
// for display without being persisted.
func annotateAlbum(album *models.Album) error {
	total, err := tree.TotalAssetCount(nil, album.ID)
	if err != nil {
		return err
	}
	album.TotalAssets = total
	if album.CoverURI != nil {
		cover, err := covers.Resolve(nil, album.ID, *album.CoverURI)
		if err != nil {
			return err
		}
		album.Cover = cover
		return nil
	}
	var first models.Asset
	err = db.Instance.
		Where("album_id = ?", album.ID).
		Order("order_index asc, added_at asc").
		First(&first).Error
	if err == nil {
		album.Cover = &first
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}
