package logger

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync/atomic"
)

type Level int32

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var currentLevel atomic.Int32

var std = log.New(os.Stderr, "", log.LstdFlags)

func init() {
	currentLevel.Store(int32(INFO))
}

// SetLevel sets the minimum level that will be emitted.
func SetLevel(level Level) {
	currentLevel.Store(int32(level))
}

// ParseLevel maps a config string to a Level, defaulting to INFO.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	default:
		return "ERROR"
	}
}

func emit(level Level, component, msg string, fields map[string]any) {
	if int32(level) < currentLevel.Load() {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] %s", level, component, msg)
	if len(fields) > 0 {
		// Sorted keys keep log lines stable for grepping and tests.
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, fields[k])
		}
	}
	std.Println(b.String())
}

func DebugC(component, msg string) { emit(DEBUG, component, msg, nil) }

func DebugCF(component, msg string, fields map[string]any) { emit(DEBUG, component, msg, fields) }

func InfoC(component, msg string) { emit(INFO, component, msg, nil) }

func InfoCF(component, msg string, fields map[string]any) { emit(INFO, component, msg, fields) }

func WarnC(component, msg string) { emit(WARN, component, msg, nil) }

func WarnCF(component, msg string, fields map[string]any) { emit(WARN, component, msg, fields) }

func ErrorC(component, msg string) { emit(ERROR, component, msg, nil) }

func ErrorCF(component, msg string, fields map[string]any) { emit(ERROR, component, msg, fields) }
