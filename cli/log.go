package cli

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/chanplate/log"
	"github.com/ardnew/chanplate/pkg"
)

// logFormat is a custom type that configures the logger format as a side
// effect of parsing via encoding.TextUnmarshaler.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-format flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during parsing.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel is a custom type that configures the logger level as a side
// effect of parsing via encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-level flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during parsing.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevels}"  help:"Set log level (${enum})."`
	Format     logFormat `default:"text"    enum:"${logFormats}" help:"Set log format (${enum})."`
	TimeLayout string    `default:"RFC3339"                      help:"Set timestamp format."`
	Caller     bool      `default:"false"                        help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                         help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevels":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormats": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// start applies every parsed logger flag to the default logger.
func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies the logger flags found in args before kong parses them, so
// that records emitted while parsing already honor them. CHANPLATE_LOG_*
// variables, including those loaded from .env files, are applied first and
// flags override them, as kong does.
//
// Level and format also configure the logger from UnmarshalText during
// parsing; boolean flags do not, which is why every logger flag is scanned.
func (f *logConfig) scan(args []string) {
	for _, name := range []string{"level", "format", "caller", "pretty"} {
		key := pkg.EnvPrefix() + "LOG_" + strings.ToUpper(name)
		if value, ok := os.LookupEnv(key); ok {
			f.apply(name, value, false)
		}
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return
		}

		flag, ok := strings.CutPrefix(arg, "--log-")
		negate := false

		if !ok {
			if flag, ok = strings.CutPrefix(arg, "--no-log-"); !ok {
				continue
			}

			negate = true
		}

		name, value, assigned := strings.Cut(flag, "=")

		switch name {
		case "level", "format":
			if negate {
				continue
			}

			// The value may be the next argument.
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				value = args[i]
			}

		case "caller", "pretty":
			if !assigned {
				value = "true"
			}

		default:
			continue
		}

		f.apply(name, value, negate)
	}
}

// apply sets the logger option name from its textual value. Boolean values
// that do not parse are ignored.
func (f *logConfig) apply(name, value string, negate bool) {
	switch name {
	case "level":
		_ = f.Level.UnmarshalText([]byte(value))

	case "format":
		_ = f.Format.UnmarshalText([]byte(value))

	case "caller":
		if v, err := strconv.ParseBool(value); err == nil {
			f.Caller = v != negate
			log.Config(log.WithCaller(f.Caller))
		}

	case "pretty":
		if v, err := strconv.ParseBool(value); err == nil {
			f.Pretty = v != negate
			log.Config(log.WithPretty(f.Pretty))
		}
	}
}
