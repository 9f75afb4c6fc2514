// Package logger configures the process-wide logrus logger.
// Components take a prefixed entry from GetLogger and never touch logrus globals directly.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/natefinch/lumberjack"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

const timestampFormat = "2006-01-02 15:04:05"

var (
	mu       sync.Mutex
	fileSink *fileHook // Installed file hook, closed when replaced
)

// Options controls where and how much is logged
type Options struct {
	// Verbosity: 0 info, 1 debug, 2+ trace
	Verbosity int
	// File enables rotating file output when non-empty
	File string
	// Console writes to stderr; disabled when the terminal is owned by the input source
	Console bool
}

// Init configures the global logger, safe to call more than once
func Init(opts Options) error {
	logrus.SetLevel(Level(opts.Verbosity))

	if opts.Console {
		EnableConsole()
	} else {
		DisableConsole()
	}

	mu.Lock()
	defer mu.Unlock()

	logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
	if fileSink != nil {
		_ = fileSink.Close()
		fileSink = nil
	}
	if opts.File == "" {
		return nil
	}

	hook, err := newFileHook(opts.File)
	if err != nil {
		return errors.Wrapf(err, "open log file %q", opts.File)
	}
	logrus.AddHook(hook)
	fileSink = hook
	return nil
}

// EnableConsole resumes stderr output, the file hook is left as is
func EnableConsole() {
	logrus.SetFormatter(&prefixed.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: timestampFormat,
		ForceFormatting: true,
	})
	logrus.SetOutput(os.Stderr)
}

// DisableConsole stops stderr output, file output keeps running
func DisableConsole() {
	logrus.SetOutput(io.Discard)
}

// Level maps a -v count to a logrus level
func Level(verbosity int) logrus.Level {
	switch {
	case verbosity <= 0:
		return logrus.InfoLevel
	case verbosity == 1:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// GetLogger returns an entry tagged with the component prefix
func GetLogger(prefix string) *logrus.Entry {
	return logrus.WithField("prefix", prefix)
}

// fileHook mirrors every entry into a rotating log file
type fileHook struct {
	writer    *lumberjack.Logger
	formatter logrus.Formatter
}

func newFileHook(path string) (*fileHook, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	// lumberjack reopens by itself; the probe only surfaces permission errors at startup
	_ = f.Close()

	return &fileHook{
		writer: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    5,
			MaxBackups: 10,
			MaxAge:     90,
		},
		formatter: &prefixed.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
			ForceFormatting: true,
		},
	}, nil
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(line)
	return err
}

// Close releases the log file
func (h *fileHook) Close() error {
	return h.writer.Close()
}
