package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormWriter forwards GORM log lines to zerolog at warn level.
type gormWriter struct {
	logger zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.logger.Warn().Msg(fmt.Sprintf(format, args...))
}

// newGormLogger reports slow queries and failed statements through the
// global zerolog logger. Record-not-found is an expected lookup miss and is
// not logged.
func newGormLogger() logger.Interface {
	return logger.New(
		gormWriter{logger: log.Logger.With().Str("component", "gorm").Logger()},
		logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}
