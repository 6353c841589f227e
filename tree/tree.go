// Package tree computes parent/child relationships and transitive asset
// counts over the album hierarchy. The hierarchy is a plain adjacency
// relation (parent_album_id pointers), walked level by level so the number
// of queries is bounded by tree depth, not node count.
package tree

import (
	"errors"

	"organizer/db"
	"organizer/models"

	"gorm.io/gorm"
)

// CollectDescendantIDs returns the IDs of every album below albumID, any
// depth, excluding albumID itself. A visited set guards against corrupt data
// containing a cycle.
func CollectDescendantIDs(tx *gorm.DB, albumID string) ([]string, error) {
	handle := db.Handle(tx)
	seen := map[string]bool{albumID: true}
	result := []string{}
	frontier := []string{albumID}
	for len(frontier) > 0 {
		var next []string
		err := handle.Model(&models.Album{}).
			Where("parent_album_id IN ?", frontier).
			Pluck("id", &next).Error
		if err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, id := range next {
			if seen[id] {
				continue
			}
			seen[id] = true
			result = append(result, id)
			frontier = append(frontier, id)
		}
	}
	return result, nil
}

// TotalAssetCount returns the number of assets in albumID plus all of its
// descendant albums: one ID collection walk, then a single count query.
func TotalAssetCount(tx *gorm.DB, albumID string) (int64, error) {
	descendants, err := CollectDescendantIDs(tx, albumID)
	if err != nil {
		return 0, err
	}
	ids := append([]string{albumID}, descendants...)
	var count int64
	err = db.Handle(tx).Model(&models.Asset{}).Where("album_id IN ?", ids).Count(&count).Error
	return count, err
}

// ParentOf returns the parent album, or nil for a top-level or unknown album.
func ParentOf(tx *gorm.DB, albumID string) (*models.Album, error) {
	handle := db.Handle(tx)
	var album models.Album
	err := handle.First(&album, "id = ?", albumID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if album.ParentAlbumID == nil {
		return nil, nil
	}
	var parent models.Album
	err = handle.First(&parent, "id = ?", *album.ParentAlbumID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &parent, nil
}

// TopLevelAlbums returns all albums without a parent, ordered for display.
func TopLevelAlbums(tx *gorm.DB) ([]models.Album, error) {
	var albums []models.Album
	err := db.Handle(tx).
		Where("parent_album_id IS NULL").
		Order("order_index asc, created_at asc").
		Find(&albums).Error
	return albums, err
}

// IsAncestor reports whether candidate is albumID itself or one of its
// ancestors, walking up the parent chain. Used to reject reparent cycles.
func IsAncestor(tx *gorm.DB, albumID, candidate string) (bool, error) {
	handle := db.Handle(tx)
	current := candidate
	seen := map[string]bool{}
	for {
		if current == albumID {
			return true, nil
		}
		if seen[current] {
			return false, nil
		}
		seen[current] = true
		var album models.Album
		err := handle.Select("parent_album_id").First(&album, "id = ?", current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if album.ParentAlbumID == nil {
			return false, nil
		}
		current = *album.ParentAlbumID
	}
}
