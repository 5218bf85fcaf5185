// Package mlog provides the compositor's Logger, matching the
// Debug/Info/Warning/Error/Fatal-plus-Log/SetLevel shape revid.Logger
// uses, backed by zap with lumberjack-rotated output instead of an
// external logging package.
package mlog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level values match the ausocean logging package's convention: larger
// is more severe, and SetLevel suppresses anything below it.
const (
	Debug int8 = iota
	Info
	Warning
	Error
	Fatal
)

// Logger is the interface the compositor logs through, named params
// alternating key, value like revid's Logger.
type Logger interface {
	SetLevel(int8)
	Log(level int8, message string, params ...interface{})

	Debug(msg string, params ...interface{})
	Info(msg string, params ...interface{})
	Warning(msg string, params ...interface{})
	Error(msg string, params ...interface{})
	Fatal(msg string, params ...interface{})
}

// zapLogger is the Logger backed by zap, writing through a lumberjack
// rotating file (when Path is set) or stderr.
type zapLogger struct {
	z     *zap.Logger
	level zap.AtomicLevel
}

// Config configures New.
type Config struct {
	// Path, if non-empty, is the log file lumberjack rotates. Empty
	// means log to stderr instead.
	Path string

	// MaxSizeMB, MaxBackups and MaxAgeDays bound the rotated file set;
	// zero selects lumberjack's defaults.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	// Development enables zap's human-readable console encoding
	// instead of JSON.
	Development bool
}

// New builds a Logger from cfg, starting at the given level.
func New(cfg Config, level int8) Logger {
	atom := zap.NewAtomicLevelAt(toZapLevel(level))

	var encoder zapcore.Encoder
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "t"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Development {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	var ws zapcore.WriteSyncer
	if cfg.Path != "" {
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		})
	} else {
		ws = zapcore.AddSync(os.Stderr)
	}

	core := zapcore.NewCore(encoder, ws, atom)
	z := zap.New(core, zap.AddCaller())

	return &zapLogger{z: z, level: atom}
}

func (l *zapLogger) SetLevel(level int8) { l.level.SetLevel(toZapLevel(level)) }

func (l *zapLogger) Log(level int8, msg string, params ...interface{}) {
	fields := fieldsFromPairs(params)
	switch level {
	case Debug:
		l.z.Debug(msg, fields...)
	case Info:
		l.z.Info(msg, fields...)
	case Warning:
		l.z.Warn(msg, fields...)
	case Error:
		l.z.Error(msg, fields...)
	case Fatal:
		l.z.Fatal(msg, fields...)
	default:
		l.z.Info(msg, fields...)
	}
}

func (l *zapLogger) Debug(msg string, params ...interface{})   { l.Log(Debug, msg, params...) }
func (l *zapLogger) Info(msg string, params ...interface{})    { l.Log(Info, msg, params...) }
func (l *zapLogger) Warning(msg string, params ...interface{}) { l.Log(Warning, msg, params...) }
func (l *zapLogger) Error(msg string, params ...interface{})   { l.Log(Error, msg, params...) }
func (l *zapLogger) Fatal(msg string, params ...interface{})   { l.Log(Fatal, msg, params...) }

func toZapLevel(level int8) zapcore.Level {
	switch level {
	case Debug:
		return zapcore.DebugLevel
	case Info:
		return zapcore.InfoLevel
	case Warning:
		return zapcore.WarnLevel
	case Error:
		return zapcore.ErrorLevel
	case Fatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// fieldsFromPairs turns alternating key, value params into zap fields,
// dropping a trailing unpaired key.
func fieldsFromPairs(params []interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(params)/2)
	for i := 0; i+1 < len(params); i += 2 {
		key, ok := params[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, params[i+1]))
	}
	return fields
}
