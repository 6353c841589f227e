// Package engine is the embedded storage engine behind the media organizer:
// albums form a tree, each asset belongs to exactly one album, and every
// operation leaves the cover and count invariants intact. It is an in-process
// library with a single logical writer — callers await one mutation before
// issuing the next dependent one.
//
// Call db.Init (or db.InitWithDSN) and models.Init once before using it.
package engine

import (
	"organizer/tree"
)

// TotalAssetCount returns the number of assets in the album and all of its
// descendant albums.
func TotalAssetCount(albumID string) (int64, error) {
	return tree.TotalAssetCount(nil, albumID)
}
