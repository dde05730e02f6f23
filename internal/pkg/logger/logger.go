package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the severity of a log entry.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var zapLevels = map[Level]zapcore.Level{
	DEBUG: zapcore.DebugLevel,
	INFO:  zapcore.InfoLevel,
	WARN:  zapcore.WarnLevel,
	ERROR: zapcore.ErrorLevel,
}

// ParseLevel accepts debug, info, warn (or warning) and error, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG, nil
	case "info", "":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", s)
}

var (
	mu     sync.RWMutex
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	sugar  = build(zapcore.AddSync(os.Stderr), false)
	redact = true
)

func build(out zapcore.WriteSyncer, development bool) *zap.SugaredLogger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), out, level)

	options := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel), zap.AddCallerSkip(1)}
	if development {
		options = append(options, zap.Development(), zap.AddCaller())
	}
	return zap.New(core, options...).Sugar()
}

// Setup configures the default logger from a level name. Development mode
// adds caller information.
func Setup(levelName string, development bool) error {
	l, err := ParseLevel(levelName)
	if err != nil {
		return err
	}
	SetLevel(l)
	mu.Lock()
	sugar = build(zapcore.AddSync(os.Stderr), development)
	mu.Unlock()
	return nil
}

// SetOutput redirects the default logger, mainly for tests.
func SetOutput(out zapcore.WriteSyncer) {
	mu.Lock()
	sugar = build(out, false)
	mu.Unlock()
}

// L returns the underlying zap logger.
func L() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Sync flushes buffered entries.
func Sync() error { return L().Sync() }

// SetLevel sets the minimum log level for the default logger.
func SetLevel(l Level) { level.SetLevel(zapLevels[l]) }

// SetRedact enables or disables credential redaction for the default logger.
func SetRedact(r bool) {
	mu.Lock()
	redact = r
	mu.Unlock()
}

// Debug emits a DEBUG-level structured log entry.
func Debug(msg string, fields ...interface{}) { L().Debugw(msg, scrub(fields)...) }

// Info emits an INFO-level structured log entry.
func Info(msg string, fields ...interface{}) { L().Infow(msg, scrub(fields)...) }

// Warn emits a WARN-level structured log entry.
func Warn(msg string, fields ...interface{}) { L().Warnw(msg, scrub(fields)...) }

// Error emits an ERROR-level structured log entry.
func Error(msg string, fields ...interface{}) { L().Errorw(msg, scrub(fields)...) }

// scrub masks credentials in string values whose key names a connection string.
func scrub(fields []interface{}) []interface{} {
	mu.RLock()
	on := redact
	mu.RUnlock()
	if !on {
		return fields
	}
	out := make([]interface{}, len(fields))
	copy(out, fields)
	for i := 0; i < len(out)-1; i += 2 {
		key, ok := out[i].(string)
		if !ok || !isConnectionKey(key) {
			continue
		}
		if val, ok := out[i+1].(string); ok {
			out[i+1] = RedactURL(val)
		}
	}
	return out
}

func isConnectionKey(key string) bool {
	key = strings.ToLower(key)
	return strings.Contains(key, "url") || strings.Contains(key, "dsn")
}
