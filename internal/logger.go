package internal

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dotpay/entity"
	"dotpay/services"
)

// Logger implements services.LogHandler on top of zap. When a database
// is supplied, records are also written to the persistent log sink.
type Logger struct {
	module   string
	zl       *zap.Logger
	database services.Database
}

// NewLogger creates a named logger. Debug mode switches to the
// development encoder and enables Debug-level output.
func NewLogger(module string, debug bool, database services.Database) *Logger {
	var zl *zap.Logger
	var err error
	if debug {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		zl = zap.NewNop()
	}
	return &Logger{
		module:   module,
		zl:       zl.With(zap.String("module", module)),
		database: database,
	}
}

func (l *Logger) persist(level, text string) {
	if l.database == nil {
		return
	}
	if err := l.database.WriteLogMessage(entity.NewLogMessage(level, l.module, text)); err != nil {
		l.zl.Error("write log message", zap.Error(err))
	}
}

func (l *Logger) Debug(text string) {
	l.zl.Debug(text)
}

func (l *Logger) Info(text string) {
	l.zl.Info(text)
	l.persist(zapcore.InfoLevel.String(), text)
}

func (l *Logger) Warn(text string) {
	l.zl.Warn(text)
	l.persist(zapcore.WarnLevel.String(), text)
}

func (l *Logger) Error(text string, err error) {
	l.zl.Error(text, zap.Error(err))
	if err != nil {
		text = text + ": " + err.Error()
	}
	l.persist(zapcore.ErrorLevel.String(), text)
}
