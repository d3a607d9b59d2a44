package debug

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

var (
	// IsEnabled controls whether debug messages are output
	IsEnabled bool
	// CurrentLevel is the minimum level of messages to output
	CurrentLevel LogLevel

	mu         sync.RWMutex
	logger     *log.Logger
	levelNames = map[LogLevel]string{
		LevelDebug:   "DEBUG",
		LevelInfo:    "INFO",
		LevelWarning: "WARNING",
		LevelError:   "ERROR",
	}
	levelMap = map[string]LogLevel{
		"DEBUG":   LevelDebug,
		"INFO":    LevelInfo,
		"WARN":    LevelWarning,
		"WARNING": LevelWarning,
		"ERROR":   LevelError,
	}
)

func init() {
	logger = log.New(os.Stdout, "", 0)
	Reinitialize()
}

// Reinitialize re-reads DEBUG and LOG_LEVEL. Call it after loading a .env file.
func Reinitialize() {
	debugEnv := os.Getenv("DEBUG")

	mu.Lock()
	IsEnabled = debugEnv == "true" || debugEnv == "1"
	if level, exists := levelMap[strings.ToUpper(os.Getenv("LOG_LEVEL"))]; exists {
		CurrentLevel = level
	} else {
		CurrentLevel = LevelInfo
	}
	enabled, level := IsEnabled, CurrentLevel
	mu.Unlock()

	if enabled {
		Info("Debug logging initialized - Enabled: %v, Level: %s", enabled, levelNames[level])
	}
}

// SetOutput redirects log output. Tests use it to capture messages.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// SetLevel enables logging at the given minimum level regardless of environment.
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	IsEnabled = true
	CurrentLevel = level
}

func output(level LogLevel, component, format string, v ...interface{}) {
	mu.RLock()
	enabled, current := IsEnabled, CurrentLevel
	mu.RUnlock()
	if !enabled || level < current {
		return
	}

	pc, file, line, _ := runtime.Caller(2)
	funcName := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcName = fn.Name()
	}

	message := fmt.Sprintf(format, v...)
	if component != "" {
		message = "[" + component + "] " + message
	}

	mu.RLock()
	defer mu.RUnlock()
	logger.Printf("[%s] [%s] [%s:%d] [%s] %s\n",
		levelNames[level],
		time.Now().Format("2006-01-02 15:04:05.000"),
		file,
		line,
		funcName,
		message,
	)
}

// Debug logs a debug level message
func Debug(format string, v ...interface{}) {
	output(LevelDebug, "", format, v...)
}

// Info logs an info level message
func Info(format string, v ...interface{}) {
	output(LevelInfo, "", format, v...)
}

// Warning logs a warning level message
func Warning(format string, v ...interface{}) {
	output(LevelWarning, "", format, v...)
}

// Error logs an error level message
func Error(format string, v ...interface{}) {
	output(LevelError, "", format, v...)
}

// Logger prefixes every message with a component name.
type Logger struct {
	component string
}

// With returns a Logger for the named component.
func With(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) Debug(format string, v ...interface{}) {
	output(LevelDebug, l.component, format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	output(LevelInfo, l.component, format, v...)
}

func (l *Logger) Warning(format string, v ...interface{}) {
	output(LevelWarning, l.component, format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	output(LevelError, l.component, format, v...)
}
