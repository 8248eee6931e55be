package utilities

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger builds a zap logger that writes each level at or above
// minLevel to its own rotating JSON file under dir and everything to a
// colored console.
func InitLogger(dir, minLevel string) (*zap.Logger, error) {
	threshold, err := zapcore.ParseLevel(minLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", minLevel)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "could not create log directory")
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:   "message",
		LevelKey:     "level",
		TimeKey:      "time",
		CallerKey:    "caller",
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{newConsoleCore(threshold)}
	for _, level := range []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel} {
		if level < threshold {
			continue
		}
		cores = append(cores, newFileCore(dir, level, encoderConfig))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// newFileCore writes exactly one level to a rotating file such as info.log.
func newFileCore(dir string, level zapcore.Level, encoderConfig zapcore.EncoderConfig) zapcore.Core {
	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, fmt.Sprintf("%s.log", level.String())),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	})
	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		writer,
		zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l == level }),
	)
}

func newConsoleCore(threshold zapcore.Level) zapcore.Core {
	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig),
		zapcore.AddSync(os.Stdout),
		zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= threshold }),
	)
}
