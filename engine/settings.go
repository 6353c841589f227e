package engine

import (
	"errors"
	"time"

	"organizer/config"
	"organizer/db"
	"organizer/models"

	"gorm.io/gorm"
)

// SettingsUpdate is a partial upsert of the singleton settings record.
type SettingsUpdate struct {
	Lang        *string
	CaptionOpen *bool
}

func defaultSettings() models.Settings {
	return models.Settings{
		ID:          models.SettingsID,
		Lang:        config.DEFAULT_LANG,
		CaptionOpen: config.CAPTION_OPEN_DEFAULT,
	}
}

// GetSettings returns the stored record, or the implicit defaults when none
// exists yet. The defaults are not persisted until the first update.
func GetSettings() (models.Settings, error) {
	var settings models.Settings
	err := db.Instance.First(&settings, "id = ?", models.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return defaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

// UpdateSettings upserts only the provided fields; a missing record is
// created with defaults filling the rest.
func UpdateSettings(update SettingsUpdate) (models.Settings, error) {
	var settings models.Settings
	err := db.InTransaction(nil, func(tx *gorm.DB) error {
		err := tx.First(&settings, "id = ?", models.SettingsID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = defaultSettings()
		} else if err != nil {
			return err
		}
		if update.Lang != nil {
			settings.Lang = *update.Lang
		}
		if update.CaptionOpen != nil {
			settings.CaptionOpen = *update.CaptionOpen
		}
		settings.UpdatedAt = time.Now().Unix()
		return tx.Save(&settings).Error
	})
	if err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}
