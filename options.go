package jsonschema

import (
	"context"
	"log/slog"
	"time"

	"github.com/andyballingall/json-schema-validator/internal/schema"
	"github.com/andyballingall/json-schema-validator/internal/uri"
)

// Option configures a Validator.
type Option func(*config)

type config struct {
	logger         *slog.Logger
	loader         schema.DocumentLoader
	timeout        time.Duration
	defaultVersion string
	backend        string
	acceptURI      func(u *uri.URI) bool
	acceptFile     func(path string) bool
	maxDepth       int
	getwd          func() (string, error)
}

// WithLogger sets the logger for schema loading and cache diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithLoader replaces the document loader used for schema references and URI
// data.
func WithLoader(l schema.DocumentLoader) Option {
	return func(c *config) { c.loader = l }
}

// WithTimeout bounds each remote fetch of the default loader.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithDefaultVersion selects the dialect used when neither the call nor the
// schema names one. The empty name keeps the built-in default.
func WithDefaultVersion(name string) Option {
	return func(c *config) { c.defaultVersion = name }
}

// WithJSONBackend selects the initial JSON backend.
func WithJSONBackend(name string) Option {
	return func(c *config) { c.backend = name }
}

// WithAcceptURI installs a policy that must approve every remote read.
func WithAcceptURI(fn func(u *URI) bool) Option {
	return func(c *config) { c.acceptURI = fn }
}

// WithAcceptFile installs a policy that must approve every local file read.
func WithAcceptFile(fn func(path string) bool) Option {
	return func(c *config) { c.acceptFile = fn }
}

// WithMaxDepth bounds schema recursion per validation.
func WithMaxDepth(n int) Option {
	return func(c *config) { c.maxDepth = n }
}

// WithWorkingDir overrides how relative paths are resolved.
func WithWorkingDir(getwd func() (string, error)) Option {
	return func(c *config) { c.getwd = getwd }
}

// ValidateOption tunes a single validation call.
type ValidateOption func(*callOptions)

type callOptions struct {
	ctx            context.Context
	list           bool
	version        string
	validateSchema bool
	recordErrors   bool
	insertDefaults bool
	clearCache     bool
	strict         bool
	parseData      bool
	json           bool
	uri            bool
	fragment       string

	// keepCache suppresses clearing during metaschema self-validation.
	keepCache bool
}

func newCallOptions(opts []ValidateOption) *callOptions {
	o := &callOptions{ctx: context.Background(), parseData: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithContext bounds the fetches made during the call.
func WithContext(ctx context.Context) ValidateOption {
	return func(o *callOptions) { o.ctx = ctx }
}

// WithList validates data as an array whose every item must match the schema.
func WithList() ValidateOption {
	return func(o *callOptions) { o.list = true }
}

// WithVersion selects the dialect by name ("draft4") or metaschema URI.
func WithVersion(name string) ValidateOption {
	return func(o *callOptions) { o.version = name }
}

// WithValidateSchema first checks the schema against its metaschema.
func WithValidateSchema() ValidateOption {
	return func(o *callOptions) { o.validateSchema = true }
}

// WithRecordErrors collects every mismatch instead of stopping at the first.
func WithRecordErrors() ValidateOption {
	return func(o *callOptions) { o.recordErrors = true }
}

// WithInsertDefaults fills absent properties of the caller's data with the
// defaults their schemas declare.
func WithInsertDefaults() ValidateOption {
	return func(o *callOptions) { o.insertDefaults = true }
}

// WithClearCache empties the schema cache once the call finishes.
func WithClearCache() ValidateOption {
	return func(o *callOptions) { o.clearCache = true }
}

// WithStrict requires every declared property and rejects undeclared ones.
func WithStrict() ValidateOption {
	return func(o *callOptions) { o.strict = true }
}

// WithParseData controls whether string data is decoded as JSON or fetched as
// a URI. It is on by default.
func WithParseData(enabled bool) ValidateOption {
	return func(o *callOptions) { o.parseData = enabled }
}

// WithJSON requires string data to be JSON text.
func WithJSON() ValidateOption {
	return func(o *callOptions) { o.json = true }
}

// WithURI requires string data to be a URI or path to fetch.
func WithURI() ValidateOption {
	return func(o *callOptions) { o.uri = true }
}

// WithFragment validates against the sub-schema at a "#/a/b" path of the root
// schema.
func WithFragment(fragment string) ValidateOption {
	return func(o *callOptions) { o.fragment = fragment }
}
