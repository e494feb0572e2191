package dynamic

import (
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

func newLogger(cfg Config) *log.Logger {
	l := log.NewWithOptions(cfg.Output, log.Options{
		Prefix: "dynamic",
		Level:  log.WarnLevel,
	})
	if cfg.Debug {
		l.SetLevel(log.DebugLevel)
	}
	l.SetColorProfile(termenv.ANSI256)
	if cfg.NoColor {
		l.SetColorProfile(termenv.Ascii)
	}
	return l
}
