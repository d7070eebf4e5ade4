package export

import (
	"context"
	"io/fs"
	"mime"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/vroute/internal/errors"
)

// CopyFiles stores every regular file of fsys under prefix, which is the
// URL prefix the files are served at ("/" or "/assets"). It returns the
// number of files copied.
func (e *Exporter) CopyFiles(ctx context.Context, fsys fs.FS, prefix string) (int, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return 0, errors.New("R031").WithDetail("Cannot read static files").Wrap(err)
	}

	base := strings.Trim(prefix, "/")
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for _, name := range files {
		g.Go(func() error {
			body, err := fs.ReadFile(fsys, name)
			if err != nil {
				return errors.New("R031").WithRoute(name).Wrap(err)
			}
			key := path.Join(base, name)
			if err := e.store.Put(ctx, key, contentType(name), body); err != nil {
				return errors.New("R031").WithRoute(name).Wrap(err)
			}
			e.logger.Debug("copied", "file", name, "key", key)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(files), nil
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
