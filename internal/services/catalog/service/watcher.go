package service

import (
	"context"
	"time"

	perr "licorice/internal/platform/errors"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of corpus file writes into one rebuild
const DefaultDebounce = 500 * time.Millisecond

// Watch blocks watching the corpus directory and rebuilding on change until
// ctx is cancelled. Editors produce several events per save, so rebuilds
// are debounced; a rebuild failure logs and keeps the previous engine
func (s *Service) Watch(ctx context.Context) error {
	if s.cfg.CorpusDir == "" {
		return perr.InvalidArgf("catalog: watch needs a corpus dir")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "catalog: create watcher")
	}
	defer func() { _ = w.Close() }()

	if err := w.Add(s.cfg.CorpusDir); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "catalog: watch %q", s.cfg.CorpusDir)
	}

	debounce := DefaultDebounce
	if s.cfg.DebounceMs > 0 {
		debounce = time.Duration(s.cfg.DebounceMs) * time.Millisecond
	}

	// timer starts stopped, armed by the first relevant event
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	s.log.Info().Str("dir", s.cfg.CorpusDir).Dur("debounce", debounce).Msg("watching corpus dir")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if armed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(debounce)
			armed = true

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn().Err(err).Msg("corpus watcher error")

		case <-timer.C:
			armed = false
			if err := s.Rebuild(ctx); err != nil {
				s.log.Error().Err(err).Msg("corpus rebuild failed, keeping previous engine")
			}
		}
	}
}
