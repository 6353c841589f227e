// Package logging configures the process-wide zap logger.
package logging

import (
	"organizer/config"

	"go.uber.org/zap"
)

func Init() {
	var logger *zap.Logger
	var err error
	if config.DEBUG_MODE {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}
