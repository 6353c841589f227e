package config

import (
	"os"
	"strings"
)

var (
	MYSQL_DSN            = ""                 // MySQL will be used if this is set
	SQLITE_FILE          = "organizer.sqlite" // SQLite will be used if MYSQL_DSN is not configured
	DEFAULT_LANG         = "en"               // Used when no Settings record exists yet; the app sets this from the device locale
	CAPTION_OPEN_DEFAULT = false              // Default for the caption panel preference
	DEBUG_MODE           = true
)

func init() {
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("DEFAULT_LANG", &DEFAULT_LANG)
	readEnvBool("CAPTION_OPEN_DEFAULT", &CAPTION_OPEN_DEFAULT)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}
