package slogcustom

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"

	"github.com/fatih/color"
)

type CustomHandler struct {
	l     *log.Logger
	level slog.Level
	attrs []slog.Attr
	group string
}

func NewCustomHandler(out io.Writer, level slog.Level) *CustomHandler {
	return &CustomHandler{
		l:     log.New(out, "", 0),
		level: level,
	}
}

func (c *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"

	switch r.Level {
	case slog.LevelDebug:
		level = color.MagentaString(level)
	case slog.LevelInfo:
		level = color.HiBlueString(level)
	case slog.LevelWarn:
		level = color.YellowString(level)
	case slog.LevelError:
		level = color.RedString(level)
	}

	attrsStr := ""
	for _, a := range c.attrs {
		attrsStr += c.formatAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		attrsStr += c.formatAttr(a)
		return true
	})

	c.l.Println(
		r.Time.Format("15:05:05.000"),
		level,
		r.Message,
		attrsStr,
	)
	return nil
}

func (c *CustomHandler) formatAttr(a slog.Attr) string {
	key := a.Key
	if c.group != "" {
		key = c.group + "." + key
	}
	return color.GreenString(key) + "=" + fmt.Sprint(a.Value.Any()) + " "
}

func (c *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *c
	clone.attrs = append(append([]slog.Attr(nil), c.attrs...), attrs...)
	return &clone
}

func (c *CustomHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return c
	}

	clone := *c
	if c.group != "" {
		clone.group = c.group + "." + name
	} else {
		clone.group = name
	}
	return &clone
}

func (c *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level
}
