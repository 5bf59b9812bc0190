// Package static serves files from a directory through an [httpctx.Context].
package static

import (
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/advdv/httpctx"
	"github.com/cockroachdb/errors"
)

// DefaultIndex is the file served for directory requests.
const DefaultIndex = "index.html"

// NotFoundError is returned when the requested file does not exist. Path is the filesystem path that was tried.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return "file not found: " + e.Path
}

// Site serves the files below a root directory. There is no caching, no range requests and no directory listing.
type Site struct {
	root    string
	index   string
	opts    []httpctx.Option
	typeExt func(ext string) string
}

// Option configures a [Site].
type Option func(*Site)

// WithIndex sets the file name served for directories.
func WithIndex(name string) Option {
	return func(s *Site) { s.index = name }
}

// WithTypeByExtension replaces the extension to content type lookup, [mime.TypeByExtension] by default. The
// default also consults the host's mime.types files, so results differ between machines.
func WithTypeByExtension(f func(ext string) string) Option {
	return func(s *Site) {
		if f != nil {
			s.typeExt = f
		}
	}
}

// WithContextOptions sets the options of the contexts created by [Site.ServeHTTP].
func WithContextOptions(opts ...httpctx.Option) Option {
	return func(s *Site) { s.opts = append(s.opts, opts...) }
}

// New creates a site serving root.
func New(root string, opts ...Option) *Site {
	s := &Site{root: root, index: DefaultIndex, typeExt: mime.TypeByExtension}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Root returns the directory being served.
func (s *Site) Root() string { return s.root }

// Index returns the index file name.
func (s *Site) Index() string { return s.index }

// Handler returns the site as a standard library handler.
func (s *Site) Handler(logs httpctx.Logger) http.Handler {
	return httpctx.ToStd(s, logs, s.opts...)
}

// ServeContext writes the file for the request. When that fails the error is written to the client and also
// returned for the caller's diagnostics.
func (s *Site) ServeContext(c *httpctx.Context) error {
	err := s.serve(c)
	if err == nil {
		return nil
	}

	if !c.Committed() {
		if werr := c.WriteError(c.Request.Context(), err); werr != nil {
			return errors.CombineErrors(err, werr)
		}
	}

	return err
}

func (s *Site) serve(c *httpctx.Context) error {
	u, err := c.URL()
	if err != nil {
		return err
	}

	fpath, err := s.FilePath(u.Path)
	if err != nil {
		return err
	}

	f, err := os.Open(fpath)
	if err != nil {
		return errors.Wrapf(err, "failed to open %q", fpath)
	}

	return c.WriteBody(c.Request.Context(), httpctx.Stream{Reader: f, ContentType: s.MimeType(fpath)})
}

// FilePath resolves a URL path to the file to serve. Directories resolve to their index file. Missing files
// yield a 404 wrapping a [*NotFoundError].
func (s *Site) FilePath(urlPath string) (string, error) {
	fpath := filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+urlPath)))

	info, err := stat(fpath)
	if err != nil {
		return "", err
	}

	if !info.IsDir() {
		return fpath, nil
	}

	fpath = filepath.Join(fpath, s.index)
	if _, err := stat(fpath); err != nil {
		return "", err
	}

	return fpath, nil
}

func stat(fpath string) (os.FileInfo, error) {
	info, err := os.Stat(fpath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, httpctx.NewError(httpctx.CodeNotFound, &NotFoundError{Path: fpath})
	} else if err != nil {
		return nil, errors.Wrapf(err, "failed to stat %q", fpath)
	}

	return info, nil
}

// MimeType derives the content type from the file extension. It is empty for unknown extensions.
func (s *Site) MimeType(fpath string) string {
	ext := filepath.Ext(fpath)
	if ext == "" {
		return ""
	}

	return s.typeExt(ext)
}
