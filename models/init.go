package models

import (
	"organizer/db"
)

func Init() {
	db.Instance.AutoMigrate(&Album{})
	db.Instance.AutoMigrate(&Asset{})
	db.Instance.AutoMigrate(&Settings{})
}

// Reset drops and recreates the whole schema. This is the only teardown the
// engine offers; callers that need a clean slate recreate everything.
func Reset() error {
	if err := db.Instance.Migrator().DropTable(&Asset{}, &Album{}, &Settings{}); err != nil {
		return err
	}
	Init()
	return nil
}
