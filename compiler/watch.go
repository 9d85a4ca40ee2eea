package compiler

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/glossa/compiler/gen"
)

// WatchDebounce is the quiet period after a source change before the
// pipeline runs again.
var WatchDebounce = 100 * time.Millisecond

// Watch runs Generate once and then again every time a registered source
// changes, until ctx is done. Every run is reported to fn; a failing run
// does not stop the watch.
//
// The directories of the sources are watched rather than the files, so
// editors that replace a file on save are followed.
func Watch(ctx context.Context, cfg *gen.Config, fn func(*Result, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := make(map[string]struct{}, len(cfg.Sources))
	dirs := make(map[string]struct{})
	for _, s := range cfg.Sources {
		path, err := filepath.Abs(s.Path)
		if err != nil {
			return err
		}
		watched[path] = struct{}{}
		dir := filepath.Dir(path)
		if _, ok := dirs[dir]; ok {
			continue
		}
		if err := w.Add(dir); err != nil {
			return err
		}
		dirs[dir] = struct{}{}
	}

	fn(Generate(ctx, cfg))
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			path, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if _, ok := watched[path]; !ok || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) {
				continue
			}
			cfg.Logger.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("source changed")
			pending = time.After(WatchDebounce)
		case <-pending:
			pending = nil
			fn(Generate(ctx, cfg))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			cfg.Logger.Error().Err(err).Msg("watching sources")
		}
	}
}
