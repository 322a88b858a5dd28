package logging

import (
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
)

type Format int

const (
	FormatConsole Format = iota + 1
	FormatJSON
)

// Quiet installs and returns a logger that drops everything.
func Quiet() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	slog.SetDefault(logger)
	return logger
}

// New builds a logger writing to w. Credentials of Jira configs and backend settings are
// masked in both formats; stacktrace only affects console output.
func New(w io.Writer, level slog.Level, format Format, stacktrace bool) *slog.Logger {
	filter := credentialFilter()

	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource:   true,
			Level:       level,
			ReplaceAttr: filter,
		}))
	}

	hook := clog.GoerrHook
	if !stacktrace {
		hook = goerrWithoutStack
	}
	return slog.New(clog.New(
		clog.WithWriter(w),
		clog.WithLevel(level),
		clog.WithReplaceAttr(filter),
		clog.WithAttrHook(hook),
		clog.WithColorMap(&clog.ColorMap{
			Level: map[slog.Level]*color.Color{
				slog.LevelDebug: color.New(color.FgGreen, color.Bold),
				slog.LevelInfo:  color.New(color.FgCyan, color.Bold),
				slog.LevelWarn:  color.New(color.FgYellow, color.Bold),
				slog.LevelError: color.New(color.FgRed, color.Bold),
			},
			LevelDefault: color.New(color.FgBlue, color.Bold),
			Time:         color.New(color.FgWhite),
			Message:      color.New(color.FgHiWhite),
			AttrKey:      color.New(color.FgHiCyan),
			AttrValue:    color.New(color.FgHiWhite),
		}),
	))
}

// Mask returns a copy of v with the same fields redacted as in log output.
func Mask(v any) any {
	return credentialFilter()(nil, slog.Any("value", v)).Value.Any()
}

func credentialFilter() func([]string, slog.Attr) slog.Attr {
	return masq.New(
		masq.WithTag("secret"),
		masq.WithFieldPrefix("secret_"),
		// Jira OAuth credentials
		masq.WithFieldName("PrivateKey"),
		masq.WithFieldName("ConsumerKey"),
		masq.WithFieldName("AccessToken"),
		masq.WithFieldName("TokenSecret"),
		// kv backend connection settings
		masq.WithFieldName("RedisURL"),
		masq.WithFieldName("Password"),
	)
}

// goerrWithoutStack flattens a goerr.Error into its message, values and cause.
func goerrWithoutStack(_ []string, attr slog.Attr) *clog.HandleAttr {
	goErr, ok := attr.Value.Any().(*goerr.Error)
	if !ok {
		return nil
	}

	attrs := []any{slog.String("message", goErr.Error())}
	for k, v := range goErr.Values() {
		attrs = append(attrs, slog.Any(k, v))
	}
	if cause := goErr.Unwrap(); cause != nil {
		attrs = append(attrs, slog.Any("cause", cause))
	}

	grouped := slog.Group(attr.Key, attrs...)
	return &clog.HandleAttr{NewAttr: &grouped}
}
