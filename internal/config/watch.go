package config

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// WatchRules loads the rules file, hands it to onUpdate, and keeps polling
// the file's modification time until ctx is cancelled. The initial load
// is synchronous so startup fails fast on a broken file.
func WatchRules(ctx context.Context, path string, interval time.Duration, logger zerolog.Logger, onUpdate func(*RulesFile)) error {
	if path == "" {
		path = "configs/rules.yaml"
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}

	rules, err := LoadRules(path)
	if err != nil {
		return err
	}
	if onUpdate != nil {
		onUpdate(rules)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	lastMod := info.ModTime()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				info, err := os.Stat(path)
				if err != nil {
					continue // transient errors
				}
				if !info.ModTime().After(lastMod) {
					continue
				}
				rules, err := LoadRules(path)
				if err != nil {
					logger.Error().Err(err).Str("path", path).Msg("Rules reload failed, keeping previous rules")
					continue
				}
				lastMod = info.ModTime()
				logger.Info().Str("path", path).Msg("Rules reloaded")
				if onUpdate != nil {
					onUpdate(rules)
				}
			}
		}
	}()

	return nil
}
