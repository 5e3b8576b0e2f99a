package log

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// MirrorToSentry forwards Error-level entries to Sentry until ctx is
// canceled. Purely ambient observability; never load-bearing, so a
// misconfigured or absent DSN must never affect playback.
func MirrorToSentry(ctx context.Context, logger *Logger, dsn string) error {
	if dsn == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{Dsn: dsn})
	if err != nil {
		return err
	}

	feed, cancel := logger.Subscribe()
	go func() {
		defer cancel()
		defer sentry.Flush(0)
		for {
			select {
			case <-ctx.Done():
				return
			case entry := <-feed:
				if entry.Level != LevelError {
					continue
				}
				sentry.WithScope(func(scope *sentry.Scope) {
					scope.SetTag("src", entry.Src)
					scope.SetTag("player", entry.Player)
					scope.SetTag("output", entry.Output)
					sentry.CaptureMessage(entry.Msg)
				})
			}
		}
	}()

	return nil
}
