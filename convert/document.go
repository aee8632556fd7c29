package convert

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"md2doc/docmodel"
	"md2doc/markdown"
	"md2doc/resolver"
	"md2doc/state"
	"md2doc/translate"
)

// convertDocument runs the whole pipeline for single source: markup is
// parsed into hypertext tree, remote images are prefetched when requested
// and the tree is translated into document model. Relative image paths are
// resolved against baseDir, empty baseDir leaves them unresolved.
func convertDocument(ctx context.Context, data []byte, kind sourceType, baseDir string, env *state.LocalEnv, log *zap.Logger) (*docmodel.Document, *markdown.Result, error) {
	cfg := &env.Cfg.Document

	p := markdown.NewParser(&cfg.Markdown, log)

	var (
		res *markdown.Result
		err error
	)
	switch kind {
	case sourceMarkdown:
		res, err = p.Parse(data)
	case sourceHTML:
		res, err = p.ParseHTML(data)
	default:
		return nil, nil, fmt.Errorf("unsupported source type: %s", kind)
	}
	if err != nil {
		return nil, nil, err
	}

	var fetcher *resolver.Fetcher
	if cfg.Images.Remote.Download {
		if fetcher, err = env.Fetcher(); err != nil {
			log.Warn("Remote images are disabled", zap.Error(err))
			fetcher = nil
		}
	}
	images := resolver.New(ctx, &cfg.Images, fetcher, baseDir, log)
	images.Prefetch(res.Root)

	doc := translate.New(translate.OptionsFromConfig(cfg), images, log).Translate(res.Root)
	if res.Title != "" {
		doc.Title = res.Title
	}
	if len(res.Meta) > 0 {
		doc.Meta = res.Meta
	}
	return doc, res, nil
}
