// Package loader fetches the raw bytes behind schema and data URIs.
package loader

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/andyballingall/json-schema-validator/internal/uri"
)

// DefaultTimeout bounds remote fetches when no other timeout is configured.
const DefaultTimeout = 30 * time.Second

var ErrUnsupportedScheme = errors.New("unsupported URI scheme")

// Fetcher reads the content behind a URI for one scheme.
type Fetcher interface {
	Fetch(ctx context.Context, u *uri.URI) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, u *uri.URI) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, u *uri.URI) ([]byte, error) {
	return f(ctx, u)
}

// Loader dispatches fetches by URI scheme. Concurrent loads of the same URI
// share a single fetch.
type Loader struct {
	mu       sync.RWMutex
	fetchers map[string]Fetcher
	group    singleflight.Group
	logger   *slog.Logger
}

// Option configures a Loader.
type Option func(*options)

type options struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// WithHTTPClient sets the client used for http and https URIs.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithTimeout bounds each remote fetch.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLogger sets the logger for fetch diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates a Loader supporting file, http, https and ftp URIs.
func New(opts ...Option) *Loader {
	o := &options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(o)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: o.timeout}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	web := &HTTPFetcher{Client: o.client}
	l := &Loader{
		fetchers: make(map[string]Fetcher),
		logger:   o.logger,
	}
	l.Register("file", FileFetcher{})
	l.Register("http", web)
	l.Register("https", web)
	l.Register("ftp", &FTPFetcher{Timeout: o.timeout})
	return l
}

// Register installs f for scheme, replacing any existing fetcher.
func (l *Loader) Register(scheme string, f Fetcher) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fetchers[strings.ToLower(scheme)] = f
}

// Load returns the content behind u. Failures are reported as *Error.
func (l *Loader) Load(ctx context.Context, u *uri.URI) ([]byte, error) {
	target := u.WithoutFragment()
	key := target.String()

	l.mu.RLock()
	f, ok := l.fetchers[strings.ToLower(target.Scheme)]
	l.mu.RUnlock()
	if !ok {
		return nil, &Error{URI: key, Wrapped: ErrUnsupportedScheme}
	}

	v, err, shared := l.group.Do(key, func() (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		l.logger.Debug("fetching document", "uri", key)
		return f.Fetch(ctx, target)
	})
	if err != nil {
		return nil, &Error{URI: key, Wrapped: err}
	}
	if shared {
		l.logger.Debug("shared in-flight fetch", "uri", key)
	}
	return v.([]byte), nil
}
