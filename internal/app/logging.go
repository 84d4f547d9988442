package app

import (
	"io"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"

	"github.com/dshills/delegator/internal/config"
)

// NewLogger builds the application logger. Output goes to a rotating file
// when one is configured and to fallback otherwise. The returned function
// closes the log file, if any.
func NewLogger(cfg config.LogConfig, fallback io.Writer) (*logrus.Logger, func() error, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors: !cfg.Pretty,
		FullTimestamp: true,
	})

	if fallback == nil {
		fallback = io.Discard
	}
	log.SetOutput(fallback)

	closeFn := func() error { return nil }
	if cfg.File.Filename != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File.Filename,
			MaxSize:    cfg.File.MaxSize,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAge,
			LocalTime:  cfg.File.LocalTime,
			Compress:   cfg.File.Compress,
		}
		log.SetOutput(file)
		closeFn = file.Close
	}

	return log, closeFn, nil
}
