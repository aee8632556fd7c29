// Package images prepares picture payloads for embedding into documents.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNotImage is returned when payload is not a picture we could embed.
var ErrNotImage = errors.New("not a supported image")

const mimeSVG = "image/svg+xml"

// Options controls image preparation.
type Options struct {
	// RasterizeSVG converts vector images to PNG.
	RasterizeSVG bool
	// MaxDimension limits bitmap width and height in pixels, 0 means no limit.
	MaxDimension int
}

// Prepared is image ready to be embedded.
type Prepared struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

// Prepare recognizes image payload, rasterizes SVG when requested and
// downscales bitmaps exceeding maximum dimension. Data which cannot be
// decoded results in ErrNotImage.
func Prepare(data []byte, opts Options) (*Prepared, error) {
	if len(data) == 0 {
		return nil, ErrNotImage
	}
	if IsSVG(data) {
		return prepareSVG(data, opts)
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || !filetype.IsImage(data) {
		return nil, ErrNotImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotImage, kind.MIME.Value, err)
	}

	if opts.MaxDimension <= 0 || (cfg.Width <= opts.MaxDimension && cfg.Height <= opts.MaxDimension) {
		return &Prepared{Data: data, MimeType: kind.MIME.Value, Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotImage, kind.MIME.Value, err)
	}
	img = imaging.Fit(img, opts.MaxDimension, opts.MaxDimension, imaging.Lanczos)

	format, mime := imaging.PNG, "image/png"
	switch kind.MIME.Value {
	case "image/jpeg":
		format, mime = imaging.JPEG, "image/jpeg"
	case "image/gif":
		format, mime = imaging.GIF, "image/gif"
	}
	return encode(img, format, mime)
}

func prepareSVG(data []byte, opts Options) (*Prepared, error) {
	if !opts.RasterizeSVG {
		w, h, err := SVGSize(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrNotImage, mimeSVG, err)
		}
		return &Prepared{Data: data, MimeType: mimeSVG, Width: w, Height: h}, nil
	}
	img, err := RasterizeSVGToImage(data, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotImage, mimeSVG, err)
	}
	if opts.MaxDimension > 0 {
		b := img.Bounds()
		if b.Dx() > opts.MaxDimension || b.Dy() > opts.MaxDimension {
			img = imaging.Fit(img, opts.MaxDimension, opts.MaxDimension, imaging.Lanczos)
		}
	}
	return encode(img, imaging.PNG, "image/png")
}

func encode(img image.Image, format imaging.Format, mime string) (*Prepared, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, format, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("unable to encode %s: %w", mime, err)
	}
	b := img.Bounds()
	return &Prepared{Data: buf.Bytes(), MimeType: mime, Width: b.Dx(), Height: b.Dy()}, nil
}

// Fit returns display frame for an image. Without keepAspect frame is used
// as is, otherwise image is scaled down (never up) to fit into the frame
// preserving its proportions.
func Fit(width, height, frameW, frameH int, keepAspect bool) (int, int) {
	if !keepAspect || width <= 0 || height <= 0 {
		return frameW, frameH
	}
	if width <= frameW && height <= frameH {
		return width, height
	}
	scale := min(float64(frameW)/float64(width), float64(frameH)/float64(height))
	return max(int(float64(width)*scale+0.5), 1), max(int(float64(height)*scale+0.5), 1)
}
