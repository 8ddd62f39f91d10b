package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Leveled logger shared by the help desk service and tools.
// - logrus backend with full timestamps
// - Debugf/Infof/Warnf/Errorf/Fatalf, structured entries and Init(level)

var std = newStd(os.Stdout)

func newStd(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	return l
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	s := strings.ToLower(strings.TrimSpace(l))
	switch s {
	case "debug":
		std.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		std.SetLevel(logrus.WarnLevel)
	case "error":
		std.SetLevel(logrus.ErrorLevel)
	case "fatal":
		std.SetLevel(logrus.FatalLevel)
	default:
		std.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects all log output.
func SetOutput(w io.Writer) { std.SetOutput(w) }

// WithFields returns an entry carrying structured fields.
func WithFields(fields logrus.Fields) *logrus.Entry { return std.WithFields(fields) }

// WithPrefix tags every line of the returned entry with a subsystem name.
func WithPrefix(prefix string) *logrus.Entry { return std.WithField("prefix", prefix) }

func Debugf(format string, v ...interface{}) { std.Debugf(format, v...) }
func Infof(format string, v ...interface{})  { std.Infof(format, v...) }
func Warnf(format string, v ...interface{})  { std.Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { std.Errorf(format, v...) }

// Fatalf logs and exits with status 1. Init never raises the level above
// fatal, so the message is always written.
func Fatalf(format string, v ...interface{}) { std.Fatalf(format, v...) }

// LevelString returns the current level as text.
func LevelString() string {
	switch std.GetLevel() {
	case logrus.DebugLevel, logrus.TraceLevel:
		return "debug"
	case logrus.WarnLevel:
		return "warn"
	case logrus.ErrorLevel:
		return "error"
	case logrus.FatalLevel, logrus.PanicLevel:
		return "fatal"
	}
	return "info"
}
