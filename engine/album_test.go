package engine

import (
	"strings"
	"testing"

	"organizer/db"
	"organizer/errs"
	"organizer/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) {
	t.Helper()
	db.InitWithDSN("file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared")
	models.Init()
}

func TestCreateAlbum(t *testing.T) {
	setupDB(t)

	album, err := CreateAlbum("Trip", "Summer 2024", nil)
	require.NoError(t, err)
	require.NotEmpty(t, album.ID)
	assert.Equal(t, "Trip", album.Name)
	assert.Equal(t, "Summer 2024", album.Description)
	assert.Nil(t, album.ParentAlbumID)
	assert.Equal(t, 1000.0, album.OrderIndex)
	assert.NotZero(t, album.CreatedAt)

	child, err := CreateAlbum("Day1", "", &album.ID)
	require.NoError(t, err)
	require.NotNil(t, child.ParentAlbumID)
	assert.Equal(t, album.ID, *child.ParentAlbumID)
	assert.Equal(t, 1000.0, child.OrderIndex)

	second, err := CreateAlbum("Day2", "", &album.ID)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, second.OrderIndex)
}

func TestCreateAlbumValidation(t *testing.T) {
	setupDB(t)

	_, err := CreateAlbum("  ", "", nil)
	require.ErrorIs(t, err, errs.ErrEmptyName)

	missing := "no-such-album"
	_, err = CreateAlbum("Orphan", "", &missing)
	require.ErrorIs(t, err, errs.ErrConstraint)
}

func TestGetAlbumByID(t *testing.T) {
	setupDB(t)

	album, err := GetAlbumByID("missing")
	require.NoError(t, err)
	require.Nil(t, album)

	trip, err := CreateAlbum("Trip", "", nil)
	require.NoError(t, err)
	day1, err := CreateAlbum("Day1", "", &trip.ID)
	require.NoError(t, err)
	_, err = InsertAssets([]models.Asset{
		{AlbumID: day1.ID, URI: "uri://1", MediaType: models.MediaTypePhoto},
		{AlbumID: day1.ID, URI: "uri://2", MediaType: models.MediaTypePhoto},
	})
	require.NoError(t, err)

	got, err := GetAlbumByID(trip.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.EqualValues(t, 2, got.TotalAssets)
	require.Len(t, got.SubAlbums, 1)
	assert.Equal(t, day1.ID, got.SubAlbums[0].ID)
	assert.EqualValues(t, 2, got.SubAlbums[0].TotalAssets)
	assert.Empty(t, got.Assets)

	gotDay, err := GetAlbumByID(day1.ID)
	require.NoError(t, err)
	require.Len(t, gotDay.Assets, 2)
	assert.Equal(t, "uri://1", gotDay.Assets[0].URI)
	assert.Equal(t, "uri://2", gotDay.Assets[1].URI)
	// No persisted cover, but the first asset stands in for display
	require.NotNil(t, gotDay.Cover)
	assert.Equal(t, "uri://1", gotDay.Cover.URI)
	assert.Nil(t, gotDay.CoverURI)
}

func TestGetAlbumByIDIdempotent(t *testing.T) {
	setupDB(t)

	trip, err := CreateAlbum("Trip", "", nil)
	require.NoError(t, err)
	_, err = InsertAssets([]models.Asset{{AlbumID: trip.ID, URI: "uri://1"}})
	require.NoError(t, err)

	first, err := GetAlbumByID(trip.ID)
	require.NoError(t, err)
	second, err := GetAlbumByID(trip.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestUpdateAlbumPartial(t *testing.T) {
	setupDB(t)

	album, err := CreateAlbum("Trip", "Original", nil)
	require.NoError(t, err)

	name := "Renamed"
	updated, err := UpdateAlbum(album.ID, AlbumUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "Original", updated.Description) // untouched

	_, err = UpdateAlbum("missing", AlbumUpdate{Name: &name})
	require.ErrorIs(t, err, errs.ErrNotFound)

	empty := " "
	_, err = UpdateAlbum(album.ID, AlbumUpdate{Name: &empty})
	require.ErrorIs(t, err, errs.ErrEmptyName)
}

func TestUpdateAlbumCover(t *testing.T) {
	setupDB(t)

	album, err := CreateAlbum("Trip", "", nil)
	require.NoError(t, err)
	_, err = InsertAssets([]models.Asset{{AlbumID: album.ID, URI: "uri://1"}})
	require.NoError(t, err)

	uri := "uri://1"
	updated, err := UpdateAlbum(album.ID, AlbumUpdate{CoverURI: &uri})
	require.NoError(t, err)
	require.NotNil(t, updated.CoverURI)
	assert.Equal(t, "uri://1", *updated.CoverURI)
	require.NotNil(t, updated.Cover)
	assert.Equal(t, "uri://1", updated.Cover.URI)

	// Cover must reference an owned asset
	bad := "uri://elsewhere"
	_, err = UpdateAlbum(album.ID, AlbumUpdate{CoverURI: &bad})
	require.ErrorIs(t, err, errs.ErrConstraint)

	updated, err = UpdateAlbum(album.ID, AlbumUpdate{ClearCover: true})
	require.NoError(t, err)
	assert.Nil(t, updated.CoverURI)
}

func TestUpdateAlbumRejectsCycle(t *testing.T) {
	setupDB(t)

	root, err := CreateAlbum("Root", "", nil)
	require.NoError(t, err)
	child, err := CreateAlbum("Child", "", &root.ID)
	require.NoError(t, err)
	grandchild, err := CreateAlbum("Grandchild", "", &child.ID)
	require.NoError(t, err)

	_, err = UpdateAlbum(root.ID, AlbumUpdate{ParentAlbumID: &grandchild.ID})
	require.ErrorIs(t, err, errs.ErrCycle)
	_, err = UpdateAlbum(root.ID, AlbumUpdate{ParentAlbumID: &root.ID})
	require.ErrorIs(t, err, errs.ErrCycle)

	// Legal reparent still works
	updated, err := UpdateAlbum(grandchild.ID, AlbumUpdate{ParentAlbumID: &root.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.ParentAlbumID)
	assert.Equal(t, root.ID, *updated.ParentAlbumID)

	updated, err = UpdateAlbum(grandchild.ID, AlbumUpdate{ClearParent: true})
	require.NoError(t, err)
	assert.Nil(t, updated.ParentAlbumID)
}

func TestDeleteAlbumCascadesSubtree(t *testing.T) {
	setupDB(t)

	trip, err := CreateAlbum("Trip", "", nil)
	require.NoError(t, err)
	day1, err := CreateAlbum("Day1", "", &trip.ID)
	require.NoError(t, err)
	day1night, err := CreateAlbum("Night", "", &day1.ID)
	require.NoError(t, err)
	_, err = InsertAssets([]models.Asset{
		{AlbumID: trip.ID, URI: "uri://t"},
		{AlbumID: day1.ID, URI: "uri://d"},
		{AlbumID: day1night.ID, URI: "uri://n"},
	})
	require.NoError(t, err)

	deletedID, err := DeleteAlbum(trip.ID)
	require.NoError(t, err)
	assert.Equal(t, trip.ID, deletedID)

	var albums int64
	require.NoError(t, db.Instance.Model(&models.Album{}).Count(&albums).Error)
	assert.EqualValues(t, 0, albums)
	var assets int64
	require.NoError(t, db.Instance.Model(&models.Asset{}).Count(&assets).Error)
	assert.EqualValues(t, 0, assets)

	_, err = DeleteAlbum(trip.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTopLevelAlbums(t *testing.T) {
	setupDB(t)

	trip, err := CreateAlbum("Trip", "", nil)
	require.NoError(t, err)
	_, err = CreateAlbum("Other", "", nil)
	require.NoError(t, err)
	day1, err := CreateAlbum("Day1", "", &trip.ID)
	require.NoError(t, err)
	_, err = InsertAssets([]models.Asset{
		{AlbumID: day1.ID, URI: "uri://1"},
		{AlbumID: day1.ID, URI: "uri://2"},
		{AlbumID: day1.ID, URI: "uri://3"},
	})
	require.NoError(t, err)

	albums, err := TopLevelAlbums()
	require.NoError(t, err)
	require.Len(t, albums, 2)
	assert.Equal(t, trip.ID, albums[0].ID)
	assert.EqualValues(t, 3, albums[0].TotalAssets)
	assert.EqualValues(t, 0, albums[1].TotalAssets)
}

func TestGetParentAlbum(t *testing.T) {
	setupDB(t)

	trip, err := CreateAlbum("Trip", "", nil)
	require.NoError(t, err)
	day1, err := CreateAlbum("Day1", "", &trip.ID)
	require.NoError(t, err)

	parent, err := GetParentAlbum(day1.ID)
	require.NoError(t, err)
	require.NotNil(t, parent)
	assert.Equal(t, trip.ID, parent.ID)

	parent, err = GetParentAlbum(trip.ID)
	require.NoError(t, err)
	assert.Nil(t, parent)
}
