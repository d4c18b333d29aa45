package initializer

import (
	"io"
	"log/slog"
	"os"

	"github.com/amirasaad/ledger/pkg/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	infoColor  = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warnColor  = lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}
	errorColor = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}
	debugColor = lipgloss.AdaptiveColor{Light: "#7E57C2", Dark: "#7E57C2"}
)

var formatters = map[string]log.Formatter{
	"json":   log.JSONFormatter,
	"text":   log.TextFormatter,
	"logfmt": log.LogfmtFormatter,
}

// SetupLogger builds the process logger from cfg and installs it as the slog default.
func SetupLogger(cfg *config.Log) *slog.Logger {
	slogger := newLogger(os.Stdout, cfg)
	slog.SetDefault(slogger)
	return slogger
}

func newLogger(w io.Writer, cfg *config.Log) *slog.Logger {
	if cfg == nil {
		cfg = &config.Log{Format: "text", TimeFormat: "2006-01-02 15:04:05"}
	}
	formatter := log.TextFormatter
	if f, ok := formatters[cfg.Format]; ok {
		formatter = f
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	logger.SetStyles(styles())
	return slog.New(logger)
}

func styles() *log.Styles {
	s := log.DefaultStyles()
	levels := map[log.Level]struct {
		icon  string
		color lipgloss.AdaptiveColor
	}{
		log.ErrorLevel: {"❌", errorColor},
		log.WarnLevel:  {"⚠️", warnColor},
		log.InfoLevel:  {"ℹ️", infoColor},
		log.DebugLevel: {"🐛", debugColor},
	}
	for level, l := range levels {
		s.Levels[level] = lipgloss.NewStyle().SetString(l.icon).Bold(true).Padding(0, 1).Foreground(l.color)
	}

	keys := map[string]lipgloss.AdaptiveColor{
		"error":       errorColor,
		"account_id":  infoColor,
		"transfer_id": infoColor,
		"user_id":     debugColor,
		"iban":        warnColor,
		"amount":      infoColor,
		"prefix":      debugColor,
		"caller":      debugColor,
		"time":        debugColor,
	}
	for key, color := range keys {
		s.Keys[key] = lipgloss.NewStyle().Foreground(color)
		s.Values[key] = lipgloss.NewStyle().Bold(true)
	}
	return s
}
