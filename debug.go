package folio

import (
	"log/slog"
	"os"
	"sync/atomic"
)

// defaultLogLevel is the level of the stderr logger used until SetLogger.
var defaultLogLevel = slog.LevelInfo

var pkgLogger atomic.Pointer[slog.Logger]

func init() {
	pkgLogger.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: defaultLogLevel})).
		With("pkg", "folio"))
}

// SetLogger replaces the package logger. A nil logger discards everything.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	pkgLogger.Store(l)
}

func logger() *slog.Logger {
	return pkgLogger.Load()
}

// debugHits logs the hit list of one hover raycast. Only active in debug mode.
func (s *Scene) debugHits(hits []Hit) {
	if !s.debug {
		return
	}
	l := logger()
	if len(hits) == 0 {
		l.Debug("raycast", "frame", s.frame, "hits", 0)
		return
	}
	h := hits[0]
	l.Debug("raycast", "frame", s.frame, "hits", len(hits),
		"nearest", h.Hitbox.Original.Name, "distance", h.Distance)
}
