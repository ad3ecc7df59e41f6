package logx

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync/atomic"
)

// Level define el nivel mínimo de log
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	currentLevel atomic.Int32
	std          = log.New(os.Stdout, "", log.LstdFlags)
)

func init() {
	currentLevel.Store(int32(LevelInfo))
}

// SetLevel establece el nivel mínimo de log
func SetLevel(l Level) {
	currentLevel.Store(int32(l))
}

func enabled(l Level) bool {
	return int32(l) >= currentLevel.Load()
}

func output(l Level, tag, msg string) {
	if !enabled(l) {
		return
	}
	std.Printf("%s %s", tag, msg)
}

func Debug(args ...any)              { output(LevelDebug, "DEBUG", fmt.Sprint(args...)) }
func Debugf(format string, a ...any) { output(LevelDebug, "DEBUG", fmt.Sprintf(format, a...)) }
func Info(args ...any)               { output(LevelInfo, "INFO", fmt.Sprint(args...)) }
func Infof(format string, a ...any)  { output(LevelInfo, "INFO", fmt.Sprintf(format, a...)) }
func Warn(args ...any)               { output(LevelWarn, "WARN", fmt.Sprint(args...)) }
func Warnf(format string, a ...any)  { output(LevelWarn, "WARN", fmt.Sprintf(format, a...)) }
func Error(args ...any)              { output(LevelError, "ERROR", fmt.Sprint(args...)) }
func Errorf(format string, a ...any) { output(LevelError, "ERROR", fmt.Sprintf(format, a...)) }

// Fatal loguea y termina el proceso
func Fatal(args ...any) {
	output(LevelError, "FATAL", fmt.Sprint(args...))
	os.Exit(1)
}

func Fatalf(format string, a ...any) {
	output(LevelError, "FATAL", fmt.Sprintf(format, a...))
	os.Exit(1)
}

// Fields son pares clave/valor que acompañan una entrada de log
type Fields map[string]any

// Entry es una entrada de log con campos adjuntos
type Entry struct {
	fields Fields
}

// WithFields crea una entrada con contexto estructurado
func WithFields(fields Fields) *Entry {
	return &Entry{fields: fields}
}

func (e *Entry) suffix() string {
	if len(e.fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.fields[k]))
	}
	return " | " + strings.Join(parts, " ")
}

func (e *Entry) Debugf(format string, a ...any) {
	output(LevelDebug, "DEBUG", fmt.Sprintf(format, a...)+e.suffix())
}

func (e *Entry) Infof(format string, a ...any) {
	output(LevelInfo, "INFO", fmt.Sprintf(format, a...)+e.suffix())
}

func (e *Entry) Warnf(format string, a ...any) {
	output(LevelWarn, "WARN", fmt.Sprintf(format, a...)+e.suffix())
}

func (e *Entry) Errorf(format string, a ...any) {
	output(LevelError, "ERROR", fmt.Sprintf(format, a...)+e.suffix())
}
