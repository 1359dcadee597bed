package logger

import (
    "io"
    "os"
    "time"

    "github.com/mattn/go-isatty"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
    "gopkg.in/natefinch/lumberjack.v2"

    "github.com/sproutagile/support-agent/internal/config"
)

func New(cfg config.Config) zerolog.Logger {
    var w io.Writer = os.Stdout
    if cfg.AppEnv == "dev" && (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())) {
        w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
    }
    if cfg.LogFile != "" {
        file := &lumberjack.Logger{Filename: cfg.LogFile, MaxSize: 16, MaxBackups: 8, MaxAge: 30, Compress: true}
        w = zerolog.MultiLevelWriter(w, file)
    }
    zerolog.TimeFieldFormat = time.RFC3339
    logger := zerolog.New(w).With().Timestamp().Logger()
    log.Logger = logger
    return logger
}
