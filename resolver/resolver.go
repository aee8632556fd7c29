package resolver

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"md2doc/config"
	"md2doc/docmodel"
	"md2doc/utils/images"
)

// DefaultAlt is used in placeholder text when image has no alternative text.
const DefaultAlt = "Image"

type sourceKind int

const (
	sourceUnresolved sourceKind = iota
	sourceLocal
	sourceRemote
	sourceData
)

var drivePathRe = regexp.MustCompile(`^[a-zA-Z]:[\\/]`)

// classify decides where image bytes come from. For local sources returned
// string is file system path.
func classify(src, baseDir string) (sourceKind, string) {
	lower := strings.ToLower(src)
	switch {
	case strings.HasPrefix(lower, "file://"):
		p := src[len("file://"):]
		if u, err := url.PathUnescape(p); err == nil {
			p = u
		}
		return sourceLocal, p
	case strings.HasPrefix(src, "//"):
		// protocol relative, scheme is unknown
		return sourceUnresolved, src
	case strings.HasPrefix(src, "/") || drivePathRe.MatchString(src) || filepath.IsAbs(src):
		return sourceLocal, src
	case strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://"):
		return sourceRemote, src
	case strings.HasPrefix(lower, "data:"):
		return sourceData, src
	case baseDir != "" && src != "" && !strings.Contains(src, "://"):
		p := src
		if u, err := url.PathUnescape(p); err == nil {
			p = u
		}
		return sourceLocal, filepath.Join(baseDir, filepath.FromSlash(p))
	}
	return sourceUnresolved, src
}

// Resolver produces image runs for a single document. It is not safe for
// concurrent use, translation is single threaded.
type Resolver struct {
	ctx        context.Context
	fetcher    *Fetcher
	policy     config.RemotePolicy
	frame      config.FrameConfig
	keepAspect bool
	opts       images.Options
	baseDir    string
	failed     map[string]struct{}
	log        *zap.Logger
}

// New creates resolver. When fetcher is nil or remote downloads are disabled
// remote images always become placeholders. Relative sources are resolved
// against baseDir when it is not empty. Context bounds downloads started on
// behalf of the document.
func New(ctx context.Context, cfg *config.ImagesConfig, fetcher *Fetcher, baseDir string, log *zap.Logger) *Resolver {
	if !cfg.Remote.Download {
		fetcher = nil
	}
	return &Resolver{
		ctx:        ctx,
		fetcher:    fetcher,
		policy:     cfg.Remote.Policy,
		frame:      cfg.Frame,
		keepAspect: cfg.KeepAspect,
		opts:       images.Options{RasterizeSVG: cfg.RasterizeSVG, MaxDimension: cfg.MaxDimension},
		baseDir:    baseDir,
		failed:     make(map[string]struct{}),
		log:        log.Named("resolver"),
	}
}

// Placeholder returns visible substitute for image which could not be
// embedded.
func Placeholder(alt string) docmodel.Run {
	alt = strings.TrimSpace(alt)
	if alt == "" {
		alt = DefaultAlt
	}
	return docmodel.Run{Text: "[" + alt + "]", Italic: true}
}

// Resolve returns image run for src or placeholder run carrying alt text.
// It never fails.
func (r *Resolver) Resolve(src, alt string) docmodel.Run {
	src = strings.TrimSpace(src)

	kind, target := classify(src, r.baseDir)
	switch kind {
	case sourceLocal:
		data, err := os.ReadFile(target)
		if err != nil {
			r.log.Debug("Unable to read local image", zap.String("path", target), zap.Error(err))
			return Placeholder(alt)
		}
		return r.embed(src, alt, data)
	case sourceData:
		data, err := decodeDataURI(src)
		if err != nil {
			r.log.Debug("Unable to decode data URI image", zap.Error(err))
			return Placeholder(alt)
		}
		return r.embed("data URI", alt, data)
	case sourceRemote:
		return r.remote(src, alt)
	}
	r.log.Debug("Unresolved image source", zap.String("src", src))
	return Placeholder(alt)
}

func (r *Resolver) embed(name, alt string, data []byte) docmodel.Run {
	img, err := images.Prepare(data, r.opts)
	if err != nil {
		r.log.Debug("Unable to use image", zap.String("src", name), zap.Error(err))
		return Placeholder(alt)
	}
	return r.imageRun(img)
}

func (r *Resolver) imageRun(img *images.Prepared) docmodel.Run {
	w, h := images.Fit(img.Width, img.Height, r.frame.Width, r.frame.Height, r.keepAspect)
	return docmodel.Run{Image: &docmodel.Image{Data: img.Data, MimeType: img.MimeType, Width: w, Height: h}}
}

func (r *Resolver) remote(src, alt string) docmodel.Run {
	if r.fetcher == nil {
		return Placeholder(alt)
	}
	if img, ok := r.fetcher.Cached(src); ok {
		return r.imageRun(img)
	}

	switch r.policy {
	case config.RemotePolicyBackground:
		r.fetcher.Background(r.ctx, src)
		return Placeholder(alt)
	case config.RemotePolicyPrefetch:
		// images prefetched successfully but evicted since are fetched again
		if _, failed := r.failed[src]; failed {
			return Placeholder(alt)
		}
	}

	img, err := r.fetcher.Fetch(r.ctx, src)
	if err != nil {
		r.log.Debug("Unable to download image", zap.String("url", src), zap.Error(err))
		return Placeholder(alt)
	}
	return r.imageRun(img)
}

// Prefetch downloads all remote images referenced by the tree when prefetch
// policy is configured, otherwise it does nothing.
func (r *Resolver) Prefetch(root *html.Node) {
	if r.fetcher == nil || r.policy != config.RemotePolicyPrefetch || root == nil {
		return
	}
	urls := CollectRemote(root)
	if len(urls) == 0 {
		return
	}
	failed := r.fetcher.Prefetch(r.ctx, urls)
	for _, u := range failed {
		r.failed[u] = struct{}{}
	}
	r.log.Debug("Remote images prefetched", zap.Int("requested", len(urls)), zap.Int("failed", len(failed)))
}

// CollectRemote returns unique remote image sources in document order.
func CollectRemote(root *html.Node) []string {
	var (
		urls []string
		seen = make(map[string]struct{})
		walk func(n *html.Node)
	)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			for _, a := range n.Attr {
				if a.Key != "src" {
					continue
				}
				src := strings.TrimSpace(a.Val)
				if kind, _ := classify(src, ""); kind == sourceRemote {
					if _, ok := seen[src]; !ok {
						seen[src] = struct{}{}
						urls = append(urls, src)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return urls
}

var errBadDataURI = errors.New("malformed data URI")

// decodeDataURI returns payload of "data:[<mediatype>][;base64],<data>".
func decodeDataURI(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(src[len("data:"):], ",")
	if !ok {
		return nil, errBadDataURI
	}
	if !strings.HasSuffix(strings.ToLower(meta), ";base64") {
		data, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errBadDataURI, err)
		}
		return []byte(data), nil
	}
	payload = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, payload)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); err != nil {
			return nil, fmt.Errorf("%w: %w", errBadDataURI, err)
		}
	}
	return data, nil
}
