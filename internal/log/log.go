package log

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	cblog "github.com/charmbracelet/log"
)

// Logger embeds the Charm Logger so callers can use it as a plain printf sink.
type Logger struct{ *cblog.Logger }

// Printf routes printf-style logs through Infof.
func (l *Logger) Printf(format string, v ...interface{}) { l.Infof(format, v...) }

var (
	logger     *Logger
	initLogger sync.Once
)

func levelStyles() *cblog.Styles {
	styles := cblog.DefaultStyles()
	styles.Levels[cblog.FatalLevel] = lipgloss.NewStyle().
		SetString(" FATAL").
		Foreground(lipgloss.Color("1"))
	styles.Levels[cblog.ErrorLevel] = lipgloss.NewStyle().
		SetString(" ERROR").
		Foreground(lipgloss.Color("9"))
	styles.Levels[cblog.WarnLevel] = lipgloss.NewStyle().
		SetString("  WARN").
		Foreground(lipgloss.Color("3"))
	styles.Levels[cblog.InfoLevel] = lipgloss.NewStyle().
		SetString("  INFO").
		Foreground(lipgloss.Color("2"))
	styles.Levels[cblog.DebugLevel] = lipgloss.NewStyle().
		SetString(" DEBUG").
		Foreground(lipgloss.Color("4"))
	return styles
}

// GetLogger returns the process-wide logger, writing to stderr.
func GetLogger() *Logger {
	initLogger.Do(func() {
		base := cblog.New(os.Stderr)
		base.SetStyles(levelStyles())
		base.SetReportTimestamp(false)
		base.SetLevel(cblog.InfoLevel)
		base.SetPrefix(" dtk")

		logger = &Logger{base}
	})
	return logger
}

// SetLevel accepts debug, info, warn, error or fatal. Unknown names leave the level unchanged.
func SetLevel(name string) bool {
	lvl, err := cblog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return false
	}
	GetLogger().SetLevel(lvl)
	return true
}

// SetOutput redirects the logger. The monitor TUI uses it to keep stderr clean.
func SetOutput(w io.Writer) { GetLogger().SetOutput(w) }

// * Convenience wrappers

func Debug(msg interface{}, keyvals ...interface{}) { GetLogger().Logger.Debug(msg, keyvals...) }
func Debugf(format string, v ...interface{})        { GetLogger().Logger.Debugf(format, v...) }
func Info(msg interface{}, keyvals ...interface{})  { GetLogger().Logger.Info(msg, keyvals...) }
func Infof(format string, v ...interface{})         { GetLogger().Logger.Infof(format, v...) }
func Warn(msg interface{}, keyvals ...interface{})  { GetLogger().Logger.Warn(msg, keyvals...) }
func Warnf(format string, v ...interface{})         { GetLogger().Logger.Warnf(format, v...) }
func Error(msg interface{}, keyvals ...interface{}) { GetLogger().Logger.Error(msg, keyvals...) }
func Errorf(format string, v ...interface{})        { GetLogger().Logger.Errorf(format, v...) }
func Fatal(msg interface{}, keyvals ...interface{}) { GetLogger().Logger.Fatal(msg, keyvals...) }
func Fatalf(format string, v ...interface{})        { GetLogger().Logger.Fatalf(format, v...) }
