package log

import (
	"fmt"
	"io"
	"os"

	"github.com/MinterTeam/minter-go-ledger/config"
	"github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	logger = log.NewNopLogger()
)

func InitLog(cfg *config.Config) {
	l, err := NewLogger(cfg)
	if err != nil {
		panic(err)
	}

	SetLogger(l)
}

// NewLogger builds a logger writing to cfg.LogPath in cfg.LogFormat with
// per-module levels from cfg.LogLevel
func NewLogger(cfg *config.Config) (log.Logger, error) {
	var dest io.Writer = os.Stdout

	if cfg.LogPath != "stdout" {
		file, err := os.OpenFile(cfg.LogPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return nil, err
		}

		dest = file
	}

	return newLogger(log.NewSyncWriter(dest), cfg.LogFormat, cfg.LogLevel)
}

func newLogger(dest io.Writer, format string, level string) (log.Logger, error) {
	var l log.Logger

	switch format {
	case config.LogFormatJSON:
		l = log.NewTMJSONLogger(dest)
	case config.LogFormatPlain:
		l = log.NewTMLogger(dest)
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}

	return flags.ParseLogLevel(level, l, "info")
}

func SetLogger(l log.Logger) {
	logger = l
}

func Logger() log.Logger {
	return logger
}

func Info(msg string, ctx ...interface{}) {
	logger.Info(msg, ctx...)
}

func Error(msg string, ctx ...interface{}) {
	logger.Error(msg, ctx...)
}

func Fatal(msg string, ctx ...interface{}) {
	logger.Error(msg, ctx...)
	os.Exit(1)
}

func With(keyvals ...interface{}) log.Logger {
	return logger.With(keyvals...)
}
