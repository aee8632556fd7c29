package resolver

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/net/html"

	"md2doc/config"
	"md2doc/docmodel"
)

func testLogger(t *testing.T) *zap.Logger {
	t.Helper()
	return zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("unable to encode png: %v", err)
	}
	return buf.Bytes()
}

func imagesConfig(policy config.RemotePolicy) *config.ImagesConfig {
	return &config.ImagesConfig{
		Frame:        config.FrameConfig{Width: 400, Height: 300},
		RasterizeSVG: true,
		MaxDimension: 2048,
		Remote: config.RemoteImagesConfig{
			Download:    true,
			Policy:      policy,
			Timeout:     5 * time.Second,
			Concurrency: 2,
			CacheSize:   16,
			MaxBytes:    1 << 20,
			UserAgent:   "md2doc-test",
		},
	}
}

func newTestFetcher(t *testing.T, cfg *config.ImagesConfig) *Fetcher {
	t.Helper()
	cache, err := NewCache(cfg.Remote.CacheSize)
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}
	return NewFetcher(cache, cfg, testLogger(t))
}

// imageServer serves png under /img/*, 404 for /missing, text for /text and
// counts requests per path.
type imageServer struct {
	*httptest.Server
	png  []byte
	hits sync.Map
	gate chan struct{}
}

func newImageServer(t *testing.T, data []byte) *imageServer {
	t.Helper()
	s := &imageServer{png: data}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, _ := s.hits.LoadOrStore(r.URL.Path, new(atomic.Int32))
		v.(*atomic.Int32).Add(1)
		if s.gate != nil {
			<-s.gate
		}
		switch {
		case strings.HasPrefix(r.URL.Path, "/img/"):
			if r.Header.Get("User-Agent") != "md2doc-test" {
				http.Error(w, "bad agent", http.StatusForbidden)
				return
			}
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(s.png)
		case r.URL.Path == "/text":
			_, _ = w.Write([]byte("<html>not an image</html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *imageServer) count(path string) int {
	if v, ok := s.hits.Load(path); ok {
		return int(v.(*atomic.Int32).Load())
	}
	return 0
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		baseDir  string
		wantKind sourceKind
		wantPath string
	}{
		{"file scheme", "file:///tmp/a%20b.png", "", sourceLocal, "/tmp/a b.png"},
		{"absolute", "/tmp/a.png", "", sourceLocal, "/tmp/a.png"},
		{"drive letter", `C:\images\a.png`, "", sourceLocal, `C:\images\a.png`},
		{"drive letter slash", "d:/a.png", "", sourceLocal, "d:/a.png"},
		{"http", "http://example.com/a.png", "", sourceRemote, "http://example.com/a.png"},
		{"https upper", "HTTPS://example.com/a.png", "", sourceRemote, "HTTPS://example.com/a.png"},
		{"data", "data:image/png;base64,AAAA", "", sourceData, "data:image/png;base64,AAAA"},
		{"relative without base", "img/a.png", "", sourceUnresolved, "img/a.png"},
		{"relative with base", "img/a.png", "/docs", sourceLocal, filepath.Join("/docs", "img", "a.png")},
		{"other scheme", "ftp://example.com/a.png", "/docs", sourceUnresolved, "ftp://example.com/a.png"},
		{"protocol relative", "//example.com/a.png", "/docs", sourceUnresolved, "//example.com/a.png"},
		{"empty", "", "/docs", sourceUnresolved, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, path := classify(tt.src, tt.baseDir)
			if kind != tt.wantKind || path != tt.wantPath {
				t.Errorf("classify(%q) = %v %q, want %v %q", tt.src, kind, path, tt.wantKind, tt.wantPath)
			}
		})
	}
}

func TestPlaceholder(t *testing.T) {
	tests := []struct {
		alt  string
		want string
	}{
		{"diagram", "[diagram]"},
		{"", "[Image]"},
		{"   ", "[Image]"},
	}
	for _, tt := range tests {
		r := Placeholder(tt.alt)
		if r.Text != tt.want || !r.Italic || r.IsImage() {
			t.Errorf("Placeholder(%q) = %+v, want italic %q", tt.alt, r, tt.want)
		}
	}
}

func assertImage(t *testing.T, r docmodel.Run, w, h int) {
	t.Helper()
	if !r.IsImage() {
		t.Fatalf("expected image run, got %+v", r)
	}
	if r.Text != "" || r.Bold || r.Italic {
		t.Errorf("image run carries text formatting: %+v", r)
	}
	if r.Image.Width != w || r.Image.Height != h {
		t.Errorf("frame = %dx%d, want %dx%d", r.Image.Width, r.Image.Height, w, h)
	}
	if len(r.Image.Data) == 0 || r.Image.MimeType == "" {
		t.Errorf("empty image payload: %+v", r.Image)
	}
}

func assertPlaceholder(t *testing.T, r docmodel.Run, want string) {
	t.Helper()
	if r.IsImage() || r.Text != want || !r.Italic {
		t.Fatalf("expected placeholder %q, got %+v", want, r)
	}
}

func TestResolver_Local(t *testing.T) {
	dir := t.TempDir()
	data := pngBytes(t, 20, 10)
	if err := os.MkdirAll(filepath.Join(dir, "img"), 0755); err != nil {
		t.Fatal(err)
	}
	abs := filepath.Join(dir, "img", "a.png")
	if err := os.WriteFile(abs, data, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := imagesConfig(config.RemotePolicyAwait)
	r := New(context.Background(), cfg, nil, dir, testLogger(t))

	t.Run("absolute", func(t *testing.T) {
		assertImage(t, r.Resolve(abs, "a"), 400, 300)
	})
	t.Run("file scheme", func(t *testing.T) {
		assertImage(t, r.Resolve("file://"+filepath.ToSlash(abs), "a"), 400, 300)
	})
	t.Run("relative", func(t *testing.T) {
		assertImage(t, r.Resolve("img/a.png", "a"), 400, 300)
	})
	t.Run("missing", func(t *testing.T) {
		assertPlaceholder(t, r.Resolve(filepath.Join(dir, "nope.png"), "gone"), "[gone]")
	})
	t.Run("not an image", func(t *testing.T) {
		assertPlaceholder(t, r.Resolve(filepath.Join(dir, "broken.png"), ""), "[Image]")
	})
	t.Run("keep aspect", func(t *testing.T) {
		cfg := imagesConfig(config.RemotePolicyAwait)
		cfg.KeepAspect = true
		r := New(context.Background(), cfg, nil, dir, testLogger(t))
		assertImage(t, r.Resolve(abs, "a"), 20, 10)
	})
	t.Run("relative without base", func(t *testing.T) {
		r := New(context.Background(), cfg, nil, "", testLogger(t))
		assertPlaceholder(t, r.Resolve("img/a.png", "rel"), "[rel]")
	})
}

func TestResolver_DataURI(t *testing.T) {
	r := New(context.Background(), imagesConfig(config.RemotePolicyAwait), nil, "", testLogger(t))

	src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 4, 4))
	assertImage(t, r.Resolve(src, "inline"), 400, 300)

	svg := `data:image/svg+xml,%3Csvg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"/%3E`
	assertImage(t, r.Resolve(svg, "vector"), 400, 300)

	assertPlaceholder(t, r.Resolve("data:image/png;base64,!!!", "bad"), "[bad]")
	assertPlaceholder(t, r.Resolve("data:nocomma", "bad"), "[bad]")
}

func TestResolver_RemoteAwait(t *testing.T) {
	srv := newImageServer(t, pngBytes(t, 8, 8))
	cfg := imagesConfig(config.RemotePolicyAwait)
	f := newTestFetcher(t, cfg)
	r := New(context.Background(), cfg, f, "", testLogger(t))

	assertImage(t, r.Resolve(srv.URL+"/img/a.png", "a"), 400, 300)
	// second resolution is served from the cache
	assertImage(t, r.Resolve(srv.URL+"/img/a.png", "a"), 400, 300)
	if n := srv.count("/img/a.png"); n != 1 {
		t.Errorf("expected single download, got %d", n)
	}

	assertPlaceholder(t, r.Resolve(srv.URL+"/missing", "404"), "[404]")
	assertPlaceholder(t, r.Resolve(srv.URL+"/text", "text"), "[text]")
	if f.cache.Len() != 1 {
		t.Errorf("failures must not be cached, cache has %d entries", f.cache.Len())
	}
}

func TestResolver_RemoteBackground(t *testing.T) {
	srv := newImageServer(t, pngBytes(t, 8, 8))
	cfg := imagesConfig(config.RemotePolicyBackground)
	f := newTestFetcher(t, cfg)
	r := New(context.Background(), cfg, f, "", testLogger(t))

	src := srv.URL + "/img/b.png"
	assertPlaceholder(t, r.Resolve(src, "b"), "[b]")

	f.Wait()
	assertImage(t, r.Resolve(src, "b"), 400, 300)
}

func TestResolver_RemoteBackgroundOutlivesCaller(t *testing.T) {
	srv := newImageServer(t, pngBytes(t, 8, 8))
	cfg := imagesConfig(config.RemotePolicyBackground)
	f := newTestFetcher(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	r := New(ctx, cfg, f, "", testLogger(t))
	src := srv.URL + "/img/c.png"
	assertPlaceholder(t, r.Resolve(src, "c"), "[c]")
	cancel()

	f.Wait()
	if _, ok := f.Cached(src); !ok {
		t.Error("background download was cancelled together with caller")
	}
}

func TestResolver_RemotePrefetch(t *testing.T) {
	srv := newImageServer(t, pngBytes(t, 8, 8))
	cfg := imagesConfig(config.RemotePolicyPrefetch)
	f := newTestFetcher(t, cfg)
	r := New(context.Background(), cfg, f, "", testLogger(t))

	doc, err := html.Parse(strings.NewReader(`<p><img src="` + srv.URL + `/img/1.png"><img src="` + srv.URL +
		`/img/2.png"><img src="` + srv.URL + `/img/1.png"><img src="` + srv.URL + `/missing"><img src="local.png"></p>`))
	if err != nil {
		t.Fatal(err)
	}
	r.Prefetch(doc)

	if f.cache.Len() != 2 {
		t.Errorf("expected 2 prefetched images, got %d", f.cache.Len())
	}
	assertImage(t, r.Resolve(srv.URL+"/img/2.png", ""), 400, 300)
	// failed prefetch is not retried during traversal
	assertPlaceholder(t, r.Resolve(srv.URL+"/missing", "m"), "[m]")
	if n := srv.count("/missing"); n != 1 {
		t.Errorf("failed image requested %d times", n)
	}
	// image not seen by prefetch is downloaded on demand
	assertImage(t, r.Resolve(srv.URL+"/img/3.png", ""), 400, 300)
}

func TestResolver_PrefetchEvicted(t *testing.T) {
	srv := newImageServer(t, pngBytes(t, 8, 8))
	cfg := imagesConfig(config.RemotePolicyPrefetch)
	cfg.Remote.CacheSize = 1
	f := newTestFetcher(t, cfg)
	r := New(context.Background(), cfg, f, "", testLogger(t))

	doc, err := html.Parse(strings.NewReader(`<p><img src="` + srv.URL + `/img/1.png"><img src="` + srv.URL + `/img/2.png"></p>`))
	if err != nil {
		t.Fatal(err)
	}
	r.Prefetch(doc)

	// only one of the two fits in cache, the other one is downloaded again
	assertImage(t, r.Resolve(srv.URL+"/img/1.png", "one"), 400, 300)
	assertImage(t, r.Resolve(srv.URL+"/img/2.png", "two"), 400, 300)
	if n := srv.count("/img/1.png") + srv.count("/img/2.png"); n != 3 {
		t.Errorf("expected 3 requests, got %d", n)
	}
}

func TestResolver_ProtocolRelative(t *testing.T) {
	dir := t.TempDir()
	r := New(context.Background(), imagesConfig(config.RemotePolicyAwait), nil, dir, testLogger(t))
	assertPlaceholder(t, r.Resolve("//example.com/a.png", "pr"), "[pr]")
}

func TestResolver_DownloadDisabled(t *testing.T) {
	srv := newImageServer(t, pngBytes(t, 8, 8))
	cfg := imagesConfig(config.RemotePolicyAwait)
	cfg.Remote.Download = false
	f := newTestFetcher(t, cfg)
	r := New(context.Background(), cfg, f, "", testLogger(t))

	assertPlaceholder(t, r.Resolve(srv.URL+"/img/a.png", "off"), "[off]")
	if n := srv.count("/img/a.png"); n != 0 {
		t.Errorf("image downloaded while downloads are disabled")
	}
}

func TestFetcher_Coalesced(t *testing.T) {
	srv := newImageServer(t, pngBytes(t, 8, 8))
	srv.gate = make(chan struct{})
	cfg := imagesConfig(config.RemotePolicyAwait)
	f := newTestFetcher(t, cfg)

	src := srv.URL + "/img/same.png"
	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for range 4 {
		wg.Go(func() {
			_, err := f.Fetch(context.Background(), src)
			errs <- err
		})
	}
	// let all callers join the flight before releasing the server
	time.Sleep(100 * time.Millisecond)
	close(srv.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if n := srv.count("/img/same.png"); n != 1 {
		t.Errorf("expected single request, got %d", n)
	}
}

func TestFetcher_TooLarge(t *testing.T) {
	srv := newImageServer(t, pngBytes(t, 64, 64))
	cfg := imagesConfig(config.RemotePolicyAwait)
	cfg.Remote.MaxBytes = 16
	f := newTestFetcher(t, cfg)

	_, err := f.Fetch(context.Background(), srv.URL+"/img/big.png")
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestFetcher_Authorization(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("Authorization"))
		http.NotFound(w, r)
	}))
	defer srv.Close()

	cfg := imagesConfig(config.RemotePolicyAwait)
	cfg.Remote.Authorization = "Bearer token"
	f := newTestFetcher(t, cfg)
	_, _ = f.Fetch(context.Background(), srv.URL+"/x.png")

	if v, _ := got.Load().(string); v != "Bearer token" {
		t.Errorf("Authorization header = %q", v)
	}
}

func TestCollectRemote(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<img src=" http://a/1.png "><div><img src="https://b/2.png"><img src="http://a/1.png"></div>` +
		`<img src="/local.png"><img alt="no src"><img src="data:image/png;base64,AA">`))
	if err != nil {
		t.Fatal(err)
	}
	got := CollectRemote(doc)
	want := []string{"http://a/1.png", "https://b/2.png"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("CollectRemote() = %v, want %v", got, want)
	}
}

func TestNewCache(t *testing.T) {
	if _, err := NewCache(0); err == nil {
		t.Error("expected error for zero sized cache")
	}
	c, err := NewCache(1)
	if err != nil {
		t.Fatal(err)
	}
	c.Add("a", nil)
	c.Add("b", nil)
	if _, ok := c.Get("a"); ok || c.Len() != 1 {
		t.Error("least recently used entry was not evicted")
	}
}
