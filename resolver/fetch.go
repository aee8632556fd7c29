package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"md2doc/config"
	"md2doc/utils/images"
)

// ErrTooLarge is returned when remote payload exceeds configured limit.
var ErrTooLarge = errors.New("remote image is too large")

// Fetcher downloads remote images into shared cache. Concurrent requests for
// the same URL are coalesced, failures are never cached.
type Fetcher struct {
	client      *http.Client
	cache       *Cache
	group       singleflight.Group
	wg          sync.WaitGroup
	timeout     time.Duration
	concurrency int
	maxBytes    int64
	userAgent   string
	auth        config.SecretString
	opts        images.Options
	log         *zap.Logger
}

func NewFetcher(cache *Cache, cfg *config.ImagesConfig, log *zap.Logger) *Fetcher {
	return &Fetcher{
		client:      &http.Client{Timeout: cfg.Remote.Timeout},
		cache:       cache,
		timeout:     cfg.Remote.Timeout,
		concurrency: max(cfg.Remote.Concurrency, 1),
		maxBytes:    cfg.Remote.MaxBytes,
		userAgent:   cfg.Remote.UserAgent,
		auth:        cfg.Remote.Authorization,
		opts:        images.Options{RasterizeSVG: cfg.RasterizeSVG, MaxDimension: cfg.MaxDimension},
		log:         log.Named("fetcher"),
	}
}

// Cached returns image if it was already downloaded.
func (f *Fetcher) Cached(url string) (*images.Prepared, bool) {
	return f.cache.Get(url)
}

// Fetch returns image from cache or downloads it. Only successfully prepared
// images are put into the cache.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*images.Prepared, error) {
	if img, ok := f.cache.Get(url); ok {
		return img, nil
	}
	v, err, shared := f.group.Do(url, func() (any, error) {
		img, err := f.download(ctx, url)
		if err != nil {
			return nil, err
		}
		f.cache.Add(url, img)
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		f.log.Debug("Coalesced image download", zap.String("url", url))
	}
	return v.(*images.Prepared), nil
}

func (f *Fetcher) download(ctx context.Context, url string) (*images.Prepared, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	if f.auth != "" {
		req.Header.Set("Authorization", string(f.auth))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected response status: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("unable to read image: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, f.maxBytes)
	}

	img, err := images.Prepare(data, f.opts)
	if err != nil {
		return nil, err
	}
	f.log.Debug("Image downloaded",
		zap.String("url", url),
		zap.String("mime", img.MimeType),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)))
	return img, nil
}

// Background starts download which outlives the caller, result only lands in
// the cache. Use Wait to make sure all such downloads are finished.
func (f *Fetcher) Background(ctx context.Context, url string) {
	ctx = context.WithoutCancel(ctx)

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		if _, err := f.Fetch(ctx, url); err != nil {
			f.log.Debug("Background image download failed", zap.String("url", url), zap.Error(err))
		}
	}()
}

// Prefetch downloads all requested images concurrently and returns URLs which
// could not be downloaded. Whole pass is bounded by the configured timeout.
func (f *Fetcher) Prefetch(ctx context.Context, urls []string) []string {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var (
		mu     sync.Mutex
		failed []string
	)
	g := new(errgroup.Group)
	g.SetLimit(f.concurrency)
	for _, url := range urls {
		g.Go(func() error {
			if _, err := f.Fetch(ctx, url); err != nil {
				f.log.Debug("Image prefetch failed", zap.String("url", url), zap.Error(err))
				mu.Lock()
				failed = append(failed, url)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return failed
}

// Wait blocks until all background downloads are finished.
func (f *Fetcher) Wait() {
	f.wg.Wait()
}
