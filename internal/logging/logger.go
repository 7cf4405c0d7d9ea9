// Package logging provides categorized file-based logging for chiron.
// Logs are written to <data-dir>/logs/ with one file per category per day.
// Logging is a silent no-op unless debug mode is enabled via Configure.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category/subsystem.
type Category string

const (
	CategoryBoot         Category = "boot"         // Startup and wiring
	CategoryResolver     Category = "resolver"     // Assessment fallback resolution
	CategoryAPI          Category = "api"          // Provider HTTP/GenAI calls
	CategoryStore        Category = "store"        // Client state store dispatches
	CategoryDocs         Category = "docs"         // Remote document store
	CategorySync         Category = "sync"         // Remote history sync
	CategoryIntake       Category = "intake"       // Intake state machine
	CategoryConnectivity Category = "connectivity" // Online/offline monitoring
)

// Settings controls logger behavior. Zero value disables all output.
type Settings struct {
	DebugMode  bool
	Categories map[string]bool // nil = all categories enabled
	Level      string          // debug/info/warn/error, default info
}

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Logger wraps a standard logger with category and file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	settings  Settings
	setMu     sync.RWMutex
	logLevel  int
)

// Configure sets up the logging directory and settings.
// Should be called once at startup with the data directory path.
func Configure(dataDir string, s Settings) error {
	setMu.Lock()
	settings = s
	switch s.Level {
	case "debug":
		logLevel = LevelDebug
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}
	setMu.Unlock()

	if !s.DebugMode {
		return nil // Silent no-op in production mode
	}
	if dataDir == "" {
		return fmt.Errorf("data directory required")
	}

	logsDir = filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== chiron logging initialized ===")
	boot.Info("Logs directory: %s", logsDir)
	boot.Info("Log level: %s", s.Level)
	return nil
}

// IsDebugMode returns whether debug logging is enabled.
func IsDebugMode() bool {
	setMu.RLock()
	defer setMu.RUnlock()
	return settings.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled.
func IsCategoryEnabled(category Category) bool {
	setMu.RLock()
	defer setMu.RUnlock()

	if !settings.DebugMode {
		return false
	}
	if settings.Categories == nil {
		return true
	}
	enabled, exists := settings.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode or the category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) || logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}

	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", date, category))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

// Debug logs a debug message (only if level <= debug).
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelDebug {
		return
	}
	l.logger.Printf("[DEBUG] %s", fmt.Sprintf(format, args...))
}

// Info logs an informational message (only if level <= info).
func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelInfo {
		return
	}
	l.logger.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

// Warn logs a warning message (only if level <= warn).
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelWarn {
		return
	}
	l.logger.Printf("[WARN] %s", fmt.Sprintf(format, args...))
}

// Error logs an error message (always written when the logger is live).
func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}

// CloseAll closes all open log files. Call on shutdown.
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for cat, l := range loggers {
		if l.file != nil {
			_ = l.file.Close()
		}
		delete(loggers, cat)
	}
}

// Timer measures operation duration for performance logging.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation in the given category.
func StartTimer(category Category, op string) *Timer {
	return &Timer{category: category, op: op, start: time.Now()}
}

// Stop logs the elapsed time for the operation.
func (t *Timer) Stop() {
	Get(t.category).Debug("%s took %s", t.op, time.Since(t.start))
}

// Convenience helpers per category.

func Boot(format string, args ...interface{})  { Get(CategoryBoot).Info(format, args...) }
func Resolver(format string, args ...interface{}) {
	Get(CategoryResolver).Info(format, args...)
}
func ResolverDebug(format string, args ...interface{}) {
	Get(CategoryResolver).Debug(format, args...)
}
func API(format string, args ...interface{})      { Get(CategoryAPI).Info(format, args...) }
func APIDebug(format string, args ...interface{}) { Get(CategoryAPI).Debug(format, args...) }
func Store(format string, args ...interface{})    { Get(CategoryStore).Info(format, args...) }
func StoreDebug(format string, args ...interface{}) {
	Get(CategoryStore).Debug(format, args...)
}
func Docs(format string, args ...interface{})      { Get(CategoryDocs).Info(format, args...) }
func DocsDebug(format string, args ...interface{}) { Get(CategoryDocs).Debug(format, args...) }
func Sync(format string, args ...interface{})      { Get(CategorySync).Info(format, args...) }
func SyncDebug(format string, args ...interface{}) { Get(CategorySync).Debug(format, args...) }
func Intake(format string, args ...interface{})    { Get(CategoryIntake).Info(format, args...) }
func IntakeDebug(format string, args ...interface{}) {
	Get(CategoryIntake).Debug(format, args...)
}
func Connectivity(format string, args ...interface{}) {
	Get(CategoryConnectivity).Info(format, args...)
}
