package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Leveled logger shared by the prompt-keeper binaries.
// Init(level) picks the threshold; With(component) tags lines from one package.

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu     sync.RWMutex
	out    *log.Logger = log.New(os.Stdout, "", 0)
	level  Level       = LevelInfo
	levels             = map[Level]string{LevelDebug: "debug", LevelInfo: "info", LevelWarn: "warn", LevelError: "error", LevelFatal: "fatal"}
)

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Unknown values select info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	level = ParseLevel(l)
}

// ParseLevel converts a level name, defaulting to LevelInfo.
func ParseLevel(l string) Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	}
	return LevelInfo
}

// SetOutput redirects log lines, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = log.New(w, "", 0)
}

func enabled(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= level
}

func emit(l Level, component, format string, v ...interface{}) {
	if l != LevelFatal && !enabled(l) {
		return
	}
	var b strings.Builder
	b.WriteString(time.Now().Format(time.RFC3339))
	b.WriteString(" [")
	b.WriteString(strings.ToUpper(levels[l]))
	b.WriteString("] ")
	if component != "" {
		b.WriteString(component)
		b.WriteString(": ")
	}
	b.WriteString(fmt.Sprintf(format, v...))
	mu.RLock()
	o := out
	mu.RUnlock()
	o.Print(b.String())
}

func Debugf(format string, v ...interface{}) { emit(LevelDebug, "", format, v...) }
func Infof(format string, v ...interface{})  { emit(LevelInfo, "", format, v...) }
func Warnf(format string, v ...interface{})  { emit(LevelWarn, "", format, v...) }
func Errorf(format string, v ...interface{}) { emit(LevelError, "", format, v...) }

func Fatalf(format string, v ...interface{}) {
	emit(LevelFatal, "", format, v...)
	os.Exit(1)
}

func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// Component logs with a fixed component tag.
type Component struct {
	name string
}

// With returns a logger that prefixes every line with name.
func With(name string) Component { return Component{name: name} }

func (c Component) Debugf(format string, v ...interface{}) { emit(LevelDebug, c.name, format, v...) }
func (c Component) Infof(format string, v ...interface{})  { emit(LevelInfo, c.name, format, v...) }
func (c Component) Warnf(format string, v ...interface{})  { emit(LevelWarn, c.name, format, v...) }
func (c Component) Errorf(format string, v ...interface{}) { emit(LevelError, c.name, format, v...) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	return levels[level]
}
