package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Logger is the leveled logger used across the analysis pipeline. It
// writes to a dated log file and mirrors everything to stdout; Debug
// messages only appear in verbose mode.
type Logger struct {
	infoLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	isVerbose   bool
	mirror      bool
}

// NewLogger opens (or creates) today's log file and returns a logger
// writing to it. When the file cannot be opened the logger degrades to
// stdout only.
func NewLogger(verbose bool) *Logger {
	logFileName := fmt.Sprintf("insight_log_%s.log", time.Now().Format("2006-01-02"))

	var out io.Writer
	file, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Printf("WARN: could not open log file %s: %v, logging to stdout only", logFileName, err)
		out = os.Stdout
	} else {
		out = file
	}

	return &Logger{
		infoLogger:  log.New(out, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile),
		errorLogger: log.New(out, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile),
		debugLogger: log.New(out, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile),
		isVerbose:   verbose,
		mirror:      err == nil,
	}
}

// NewDiscardLogger returns a logger that drops everything. Used by
// tests that do not assert on log output.
func NewDiscardLogger() *Logger {
	return &Logger{
		infoLogger:  log.New(io.Discard, "", 0),
		errorLogger: log.New(io.Discard, "", 0),
		debugLogger: log.New(io.Discard, "", 0),
	}
}

// Info logs an informational message.
func (l *Logger) Info(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.infoLogger.Println(msg)
	if l.mirror {
		log.Println("INFO:", msg)
	}
}

// Error logs an error message.
func (l *Logger) Error(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.errorLogger.Println(msg)
	if l.mirror {
		log.Println("ERROR:", msg)
	}
}

// Debug logs a debug message when verbose mode is on.
func (l *Logger) Debug(format string, v ...interface{}) {
	if !l.isVerbose {
		return
	}
	msg := fmt.Sprintf(format, v...)
	l.debugLogger.Println(msg)
	if l.mirror {
		log.Println("DEBUG:", msg)
	}
}

// LogRunStart logs the beginning of an analysis run.
func (l *Logger) LogRunStart(runID string) {
	l.Info("Starting analysis run %s", runID)
}

// LogRunComplete logs the completion of an analysis run.
func (l *Logger) LogRunComplete(runID string, startTime time.Time, records int, recommendations int) {
	l.Info("Analysis run %s complete in %v: %d enriched records, %d recommendations",
		runID, time.Since(startTime), records, recommendations)
}
