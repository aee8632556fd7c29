// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"md2doc/config"
	"md2doc/resolver"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// used by convert subcommand
	NoDirs    bool
	Overwrite bool
	KeepHTML  bool
	CodePage  encoding.Encoding

	// Remote images are shared by all documents converted during program
	// lifetime, cache and fetcher are created lazily on first use.
	images  *resolver.Cache
	fetcher *resolver.Fetcher

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &LocalEnv{start: time.Now()})
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// Fetcher returns process wide remote image fetcher backed by LRU cache sized
// according to configuration.
func (e *LocalEnv) Fetcher() (*resolver.Fetcher, error) {
	if e.fetcher != nil {
		return e.fetcher, nil
	}
	remote := &e.Cfg.Document.Images.Remote
	cache, err := resolver.NewCache(remote.CacheSize)
	if err != nil {
		return nil, err
	}
	e.images = cache
	e.fetcher = resolver.NewFetcher(cache, &e.Cfg.Document.Images, e.Log)
	return e.fetcher, nil
}

// WaitForImages blocks until all background image downloads are finished.
func (e *LocalEnv) WaitForImages() {
	if e.fetcher == nil {
		return
	}
	e.fetcher.Wait()
	if e.Log != nil {
		e.Log.Debug("Remote images cached", zap.Int("count", e.images.Len()))
	}
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
