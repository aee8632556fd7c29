package convert

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"md2doc/archive"
	"md2doc/config"
	"md2doc/docmodel"
	"md2doc/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	format := env.Cfg.Document.Output.Format
	if to := cmd.String("to"); len(to) > 0 {
		if format, err = config.ParseOutputFmt(to); err != nil {
			log.Warn("Unknown output format requested, using configured one", zap.Error(err), zap.Stringer("format", env.Cfg.Document.Output.Format))
			format = env.Cfg.Document.Output.Format
		}
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")
	env.KeepHTML = cmd.Bool("keep-html") || env.Cfg.Document.Output.KeepHTML

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	if cp := cmd.String("force-zip-cp"); len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, format, log)
}

// process handles the core conversion logic independently of CLI framework.
// It determines the input type (directory, archive, or single file) and
// processes accordingly. Failures of individual documents do not stop batch
// processing and are returned together.
func process(ctx context.Context, src, dst string, format config.OutputFmt, log *zap.Logger) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := processDir(ctx, head, dst, format, log); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			return nil
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		arc, err := isArchiveFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if arc {
			// we need to look inside to see if path makes sense
			pathIn := filepath.ToSlash(strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator)))
			if err := processArchive(ctx, head, pathIn, "", dst, format, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			return nil
		}

		kind := detectSource(head)
		if kind == sourceNone || len(tail) != 0 {
			return fmt.Errorf("input was not recognized as markdown or html document (%s)", head)
		}
		file, err := os.Open(head)
		if err != nil {
			return fmt.Errorf("unable to process file: %w", err)
		}
		defer file.Close()
		return processFile(ctx, file, kind, filepath.Base(head), filepath.Dir(head), dst, format, log)
	}
	return fmt.Errorf("input source was not found (%s)", src)
}

// processDir walks directory tree finding documents and archives and
// processes them one by one in natural order of their paths.
func processDir(ctx context.Context, dir, dst string, format config.OutputFmt, log *zap.Logger) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	slices.SortFunc(paths, naturalCompare)

	var errs error
	count := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		if kind := detectSource(path); kind != sourceNone {
			count++
			errs = multierr.Append(errs, processPath(ctx, path, kind, rel, dst, format, log))
			continue
		}

		arc, err := isArchiveFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if !arc {
			log.Debug("Skipping file, not recognized as document or archive", zap.String("file", path))
			continue
		}
		count++
		if err := processArchive(ctx, path, "", filepath.Dir(rel), dst, format, log); err != nil {
			log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("archive %s: %w", rel, err))
		}
	}
	if count == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return errs
}

func processPath(ctx context.Context, path string, kind sourceType, rel, dst string, format config.OutputFmt, log *zap.Logger) error {
	file, err := os.Open(path)
	if err != nil {
		log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		return fmt.Errorf("%s: %w", rel, err)
	}
	defer file.Close()

	if err := processFile(ctx, file, kind, rel, filepath.Dir(path), dst, format, log); err != nil {
		log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		return fmt.Errorf("%s: %w", rel, err)
	}
	return nil
}

// processArchive walks all documents inside archive under "pathIn" and
// processes them. Images referenced by relative paths cannot be read from
// inside archive and are left as placeholders.
func processArchive(ctx context.Context, path, pathIn, pathOut, dst string, format config.OutputFmt, log *zap.Logger) error {
	var errs error
	count := 0

	err := archive.Walk(path, pathIn, isSourceName, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		count++

		pathInArchive := decodeArchiveName(ctx, f, log)

		r, err := f.Open()
		if err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", pathInArchive, err))
			return nil
		}
		defer r.Close()

		if err := processFile(ctx, r, detectSource(f.Name), filepath.Join(pathOut, filepath.FromSlash(pathInArchive)), "", dst, format, log); err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", pathInArchive, err))
		}
		return nil
	})
	if err == nil && count == 0 {
		log.Debug("Nothing to process", zap.String("archive", path))
	}
	return multierr.Append(err, errs)
}

func decodeArchiveName(ctx context.Context, f *zip.File, log *zap.Logger) string {
	name := f.FileHeader.Name
	cp := state.EnvFromContext(ctx).CodePage
	if cp == nil || !f.FileHeader.NonUTF8 {
		return name
	}
	// forcing zip file name encoding
	n, err := cp.NewDecoder().String(name)
	if err != nil {
		cs, _ := ianaindex.IANA.Name(cp)
		log.Warn("Unable to convert archive name from specified encoding",
			zap.String("charset", cs), zap.String("path", name), zap.Error(err))
		return name
	}
	return n
}

// processFile converts single document. "src" is part of the source path
// (always including file name) relative to the original path. When actual
// file was specified it will be just base file name without a path. When
// looking inside archive or directory it will be relative path inside
// archive or directory (including base file name). "dst" is the destination
// directory where the converted file should be written.
func processFile(ctx context.Context, r io.Reader, kind sourceType, src, baseDir, dst string, format config.OutputFmt, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var docID, outputName string

	log.Info("Conversion starting", zap.String("from", src), zap.Stringer("type", kind))
	defer func(start time.Time) {
		// NOTE: image decoding libraries are not always robust and we do not
		// want to stop batch processing because of a single document.
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else if rerr == nil {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.String("id", docID))
		}
	}(time.Now())

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("unable to read source (%s): %w", src, err)
	}

	doc, parsed, err := convertDocument(ctx, data, kind, baseDir, env, log)
	if err != nil {
		return fmt.Errorf("unable to parse source (%s): %w", src, err)
	}
	docID = doc.ID

	outputName = buildOutputPath(doc, src, dst, format, env)
	if err := prepareOutput(outputName, env.Overwrite, log); err != nil {
		return err
	}

	if err := writeDocument(doc, outputName, format); err != nil {
		return fmt.Errorf("unable to generate output: %w", err)
	}

	if env.KeepHTML {
		htmlName := strings.TrimSuffix(outputName, filepath.Ext(outputName)) + ".html"
		if err := os.WriteFile(htmlName, parsed.HTML, 0644); err != nil {
			log.Warn("Unable to keep intermediate html", zap.String("file", htmlName), zap.Error(err))
		}
	}

	// Store conversion results for debugging
	if env.Rpt != nil {
		env.Rpt.StoreData(fmt.Sprintf("html-%s.html", docID), parsed.HTML)
		env.Rpt.StoreData(fmt.Sprintf("model-%s.txt", docID), []byte(doc.String()))
		env.Rpt.Store(fmt.Sprintf("result-%s%s", docID, filepath.Ext(outputName)), outputName)
	}
	return nil
}

// prepareOutput makes sure output file could be written.
func prepareOutput(outputName string, overwrite bool, log *zap.Logger) error {
	_, err := os.Stat(outputName)
	switch {
	case err == nil:
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		return os.Remove(outputName)
	case !os.IsNotExist(err):
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}

func writeDocument(doc *docmodel.Document, outputName string, format config.OutputFmt) (err error) {
	w, err := docmodel.NewWriter(format)
	if err != nil {
		return err
	}
	f, err := os.Create(outputName)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
		if err != nil {
			os.Remove(outputName)
		}
	}()
	return w.Write(f, doc)
}

func naturalCompare(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	}
	return 0
}
