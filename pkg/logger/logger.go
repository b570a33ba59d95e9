package logger

import (
	"io"
	"log"
	"os"
)

const flags = log.Ldate | log.Ltime | log.Lmicroseconds

// Logger writes info and warnings to stdout, errors to stderr.
type Logger struct {
	info  *log.Logger
	warn  *log.Logger
	error *log.Logger
}

func New() *Logger {
	return newLogger(os.Stdout, os.Stderr)
}

func newLogger(out, errOut io.Writer) *Logger {
	return &Logger{
		info:  log.New(out, "[INFO] ", flags),
		warn:  log.New(out, "[WARN] ", flags),
		error: log.New(errOut, "[ERROR] ", flags),
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.info.Printf(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.warn.Printf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.error.Printf(format, args...)
}
