package log

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync/atomic"
)

var enabledSections = []string{
	"check",
	"chain",
	"match",
}

var level = new(slog.LevelVar)

var LoggerOpts = &slog.HandlerOptions{
	AddSource: true,
	Level:     level,
	ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == "time" {
			return slog.Attr{}
		}
		return a
	},
}

// output is swapped by SetHandler; loggers derived before the swap follow it
var output atomic.Pointer[slog.Handler]

func init() {
	level.Set(slog.LevelError)
	var h slog.Handler = slog.NewTextHandler(os.Stderr, LoggerOpts)
	output.Store(&h)
}

var DefaultLogger = slog.New(&filteringHandler{})

// SetLevel changes the minimum level of every logger derived from DefaultLogger
func SetLevel(l slog.Level) {
	level.Set(l)
}

// Level returns the current minimum level
func Level() slog.Level {
	return level.Level()
}

// Handler returns the handler set by SetHandler.
func Handler() slog.Handler {
	return *output.Load()
}

// SetHandler replaces the handler records end up in after section filtering.
// The handler's own level filtering is bypassed in favour of SetLevel.
func SetHandler(h slog.Handler) {
	output.Store(&h)
}

var _ slog.Handler = &filteringHandler{}

type filteringHandler struct {
	attrs    []slog.Attr
	groups   []string
	sections []string
}

func (f *filteringHandler) underlying() slog.Handler {
	h := *output.Load()
	if len(f.attrs) > 0 {
		h = h.WithAttrs(f.attrs)
	}
	for _, g := range f.groups {
		h = h.WithGroup(g)
	}
	return h
}

func (f *filteringHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= level.Level()
}

func (f *filteringHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelWarn || len(f.sections) > 0 {
		return f.underlying().Handle(ctx, record)
	}
	// first filter out records which do not match enabledSections
	wantSection := false
	record.Attrs(func(attr slog.Attr) bool {
		wantSection = wantSection || attr.Key == "section" && sectionEnabled(attr.Value.String())
		// iterate as long as we have not found our section
		return !wantSection
	})
	if !wantSection {
		return nil
	}
	return f.underlying().Handle(ctx, record)
}

func (f *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &filteringHandler{
		attrs:    slices.Clone(f.attrs),
		groups:   f.groups,
		sections: slices.Clone(f.sections),
	}
	// keep the section attribute in filteringHandler
	for _, attr := range attrs {
		if attr.Key == "section" && sectionEnabled(attr.Value.String()) {
			next.sections = append(next.sections, attr.Value.String())
		}
		next.attrs = append(next.attrs, attr)
	}
	return next
}

func (f *filteringHandler) WithGroup(name string) slog.Handler {
	return &filteringHandler{
		attrs:    f.attrs,
		groups:   append(slices.Clone(f.groups), name),
		sections: f.sections,
	}
}

func sectionEnabled(name string) bool {
	return slices.ContainsFunc(enabledSections, func(section string) bool {
		return strings.HasPrefix(name, section)
	})
}
