package cmd

import (
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/n2cholas/shapecheck/check"
	"github.com/n2cholas/shapecheck/internal/config"
	"github.com/n2cholas/shapecheck/internal/log"
	"github.com/n2cholas/shapecheck/report"
)

// styles is how reports are printed, set by Configure
var styles = report.Plain

// Configure loads the configuration at path, or shapecheck.toml in the
// working directory if path is empty, and applies it to the process. The
// returned func puts back the settings Configure replaced.
func Configure(path string) (restore func(), err error) {
	cfg, err := config.Load(config.LoadOptions{ConfigFilePath: path})
	if err != nil {
		return nil, err
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	prevHandler, prevLevel, prevStyles := log.Handler(), log.Level(), styles
	restoreEnabled := check.SetEnabled(cfg.Enabled)

	handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Prefix: "shapecheck",
		// filtering by level happens before records reach the handler
		Level: charmlog.DebugLevel,
	})
	log.SetHandler(handler)
	log.SetLevel(level)

	styles = report.Plain
	if cfg.Color {
		styles = report.Colored
	}
	return func() {
		restoreEnabled()
		log.SetHandler(prevHandler)
		log.SetLevel(prevLevel)
		styles = prevStyles
	}, nil
}

func paint(style lipgloss.Style, text string) string {
	if !styles.Color {
		return text
	}
	return style.Render(text)
}
