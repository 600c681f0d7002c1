package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tracegen/internal/buildlog"
	"tracegen/internal/observ"
	"tracegen/internal/trace"
)

const cacheAppName = "tracegen"

// session carries what every command needs once flags are parsed.
type session struct {
	settings settings
	log      *logger
	useColor bool
	timings  bool
	timer    *observ.Timer
	cache    *buildlog.Cache
	span     *trace.Span
}

// openSession resolves settings and starts tracing and profiling. The
// returned cleanup must run once the command finishes.
func openSession(cmd *cobra.Command) (*session, func(), error) {
	pf := cmd.Root().PersistentFlags()
	colorValue, err := pf.GetString("color")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	colorMode, err := parseSwitch("color", colorValue)
	if err != nil {
		return nil, nil, err
	}
	useColor := colorEnabled(colorMode, cmd.ErrOrStderr())
	quiet, err := pf.GetBool("quiet")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := pf.GetBool("timings")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	clearCache, err := pf.GetBool("clear-cache")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}

	s := &session{
		log:      newLogger(cmd.ErrOrStderr(), useColor, quiet),
		useColor: useColor,
		timings:  timings,
		timer:    observ.NewTimer(),
	}
	if s.settings, err = resolveSettings(cmd); err != nil {
		return nil, nil, err
	}

	stopProfiling, err := setupProfiling(cmd, s.log)
	if err != nil {
		return nil, nil, err
	}
	stopTracing, err := setupTracing(cmd)
	if err != nil {
		stopProfiling()
		return nil, nil, err
	}

	ctx, span := trace.Start(cmd.Context(), trace.ScopeDriver, cmd.Name(), trace.String("input", s.settings.Input))
	s.span = span
	cmd.SetContext(ctx)

	cleanup := func() {
		s.span.End("")
		stopTracing()
		stopProfiling()
	}

	if s.settings.Cache || clearCache {
		cache, cacheErr := buildlog.OpenCache(cacheAppName)
		switch {
		case cacheErr != nil && clearCache:
			cleanup()
			return nil, nil, fmt.Errorf("clear cache: %w", cacheErr)
		case cacheErr != nil:
			trace.Note(ctx, trace.ScopeDriver, "cache", "disabled: "+cacheErr.Error())
		default:
			if clearCache {
				if err := cache.DropAll(); err != nil {
					cleanup()
					return nil, nil, fmt.Errorf("clear cache %s: %w", cache.Dir(), err)
				}
				s.log.Infof("cleared build log cache %s", cache.Dir())
			}
			if s.settings.Cache {
				s.cache = cache
			}
		}
	}

	return s, cleanup, nil
}
