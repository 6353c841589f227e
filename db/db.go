package db

import (
	"organizer/config"
	"organizer/logging"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var Instance *gorm.DB

// Init opens the single database handle for the process. MySQL is used when
// MYSQL_DSN is configured, SQLite otherwise. The handle is cached for the
// process lifetime.
func Init() {
	logging.Init()
	cfg := &gorm.Config{
		// All multi-statement mutations open transactions explicitly
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}
	var err error
	if config.MYSQL_DSN != "" {
		Instance, err = gorm.Open(mysql.Open(config.MYSQL_DSN), cfg)
	} else {
		Instance, err = gorm.Open(sqlite.Open(config.SQLITE_FILE), cfg)
	}
	if err != nil || Instance == nil {
		panic(err)
	}
}

// InitWithDSN opens a SQLite database at the given DSN, bypassing config.
// Used by tests and by the reset-and-recreate path.
func InitWithDSN(dsn string) {
	logging.Init()
	instance, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil || instance == nil {
		panic(err)
	}
	Instance = instance
}

// InTransaction threads an explicit transaction context through multi-statement
// mutations. A nil tx opens a new transaction (rolled back if fn errors);
// a non-nil tx means the caller already holds one and fn joins it. The
// underlying engine does not support nested transactions, so this is the only
// way transactional helpers may compose.
func InTransaction(tx *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx != nil {
		return fn(tx)
	}
	return Instance.Transaction(fn)
}

// Handle returns tx when inside a transaction, the shared handle otherwise.
func Handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return Instance
}
