package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	jsonschema "github.com/andyballingall/json-schema-validator"
	"github.com/andyballingall/json-schema-validator/internal/config"
	"github.com/andyballingall/json-schema-validator/internal/crosscheck"
	"github.com/andyballingall/json-schema-validator/internal/fs"
	"github.com/andyballingall/json-schema-validator/internal/report"
	"github.com/andyballingall/json-schema-validator/internal/uri"
)

// inlineSchemaName identifies a schema given as JSON text on the command line
// when it is handed to the cross-checker.
const inlineSchemaName = "jsv-inline.schema.json"

// ValidateRequest describes one run of the validate command.
type ValidateRequest struct {
	Schema   string
	Inputs   []string
	Version  string
	Fragment string
	Query    string
	DataMode string

	Strict         bool
	List           bool
	InsertDefaults bool
	ValidateSchema bool
	CrossCheck     bool

	Verbose   bool
	Format    string
	UseColour bool
	Jobs      int
}

// CheckRequest describes one run of the check-schema command.
type CheckRequest struct {
	Schema  string
	Version string
	Format  string
}

// Manager defines the operations behind the jsv commands.
type Manager interface {
	Validate(ctx context.Context, req ValidateRequest) error
	WatchValidation(ctx context.Context, req ValidateRequest, readyChan chan<- struct{}) error
	CheckSchema(ctx context.Context, req CheckRequest) error
	ListDialects(ctx context.Context, format string) error
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner Manager
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

// HasInner returns true if the inner manager has been set.
// This is used by PersistentPreRunE to skip initialization if already configured (e.g., in tests).
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) Validate(ctx context.Context, req ValidateRequest) error {
	return l.check().Validate(ctx, req)
}

func (l *LazyManager) WatchValidation(ctx context.Context, req ValidateRequest, readyChan chan<- struct{}) error {
	return l.check().WatchValidation(ctx, req, readyChan)
}

func (l *LazyManager) CheckSchema(ctx context.Context, req CheckRequest) error {
	return l.check().CheckSchema(ctx, req)
}

func (l *LazyManager) ListDialects(ctx context.Context, format string) error {
	return l.check().ListDialects(ctx, format)
}

// Ensure the interface is satisfied.
var _ Manager = (*CLIManager)(nil)

// CLIManager is the concrete implementation of the Manager interface.
type CLIManager struct {
	logger         *slog.Logger
	validator      *jsonschema.Validator
	checker        crosscheck.Checker
	cfg            *config.Config
	paths          fs.PathResolver
	reporterWriter io.Writer

	// mu serialises watch reruns.
	mu sync.Mutex
}

func NewCLIManager(
	l *slog.Logger,
	v *jsonschema.Validator,
	c crosscheck.Checker,
	cfg *config.Config,
	paths fs.PathResolver,
	w io.Writer,
) *CLIManager {
	if cfg == nil {
		cfg = config.Default()
	}
	if paths == nil {
		paths = fs.NewPathResolver()
	}
	if w == nil {
		w = os.Stdout
	}
	return &CLIManager{
		logger:         l,
		validator:      v,
		checker:        c,
		cfg:            cfg,
		paths:          paths,
		reporterWriter: w,
	}
}

func (m *CLIManager) Validate(ctx context.Context, req ValidateRequest) error {
	m.logger.Debug("validating data", "schema", req.Schema, "inputs", req.Inputs, "mode", req.DataMode,
		"version", req.Version, "fragment", req.Fragment, "crossCheck", req.CrossCheck)

	r, err := m.run(ctx, req)
	if err != nil {
		return err
	}
	if err := m.write(req, r); err != nil {
		return err
	}
	if r.Failed() {
		return &InvalidDataError{Stats: r.Stats()}
	}
	return nil
}

// WatchValidation validates once, then again whenever the schema or a data
// file changes. If you want to know when the watcher is ready to start
// listening to changes, pass a non-nil readyChan to be notified.
func (m *CLIManager) WatchValidation(ctx context.Context, req ValidateRequest, readyChan chan<- struct{}) error {
	m.logger.Debug("watching validation", "schema", req.Schema, "inputs", req.Inputs)

	if err := m.Validate(ctx, req); err != nil {
		var invalid *InvalidDataError
		if !errors.As(err, &invalid) {
			return err
		}
	}

	watcher := NewWatcher(m.watchPaths(req), m.logger)

	callback := func(path string) {
		m.mu.Lock()
		defer m.mu.Unlock()

		m.logger.Info("Change detected:", "path", path)
		m.validator.ClearCache()

		r, err := m.run(ctx, req)
		if err != nil {
			m.logger.Error("Validation failed", "error", err)
			return
		}
		if wErr := m.write(req, r); wErr != nil {
			m.logger.Error("Failed to write report", "error", wErr)
		}
	}

	// Forward watcher Ready signal if caller wants notification
	if readyChan != nil {
		go func() {
			<-watcher.Ready
			readyChan <- struct{}{}
		}()
	}

	return watcher.Watch(ctx, callback)
}

func (m *CLIManager) CheckSchema(ctx context.Context, req CheckRequest) error {
	m.logger.Debug("checking schema", "schema", req.Schema, "version", req.Version)

	opts := []jsonschema.ValidateOption{jsonschema.WithContext(ctx)}
	if req.Version != "" {
		opts = append(opts, jsonschema.WithVersion(req.Version))
	}
	errs, err := m.validator.FullyValidateSchema(req.Schema, opts...)
	if err != nil {
		return err
	}

	if req.Format == report.FormatJSON {
		enc := json.NewEncoder(m.reporterWriter)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{
			"schema": req.Schema,
			"valid":  len(errs) == 0,
			"errors": errs.Objects(),
		}); err != nil {
			return err
		}
	} else {
		if len(errs) == 0 {
			fmt.Fprintf(m.reporterWriter, "✓ %s is valid against its metaschema\n", req.Schema)
		}
		for _, s := range errs.Strings() {
			fmt.Fprintf(m.reporterWriter, "✗ %s\n", s)
		}
	}

	if len(errs) > 0 {
		return &InvalidSchemaError{Schema: req.Schema, Count: len(errs)}
	}
	return nil
}

type dialectInfo struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	URI     string   `json:"uri,omitempty"`
	Formats []string `json:"formats"`
}

func (m *CLIManager) ListDialects(_ context.Context, format string) error {
	var infos []dialectInfo
	for _, d := range m.validator.Dialects() {
		info := dialectInfo{Name: d.Name(), Formats: d.Formats()}
		if u := d.URI(); u != nil {
			info.URI = u.String()
		}
		for _, n := range d.Names() {
			if n != d.Name() && n != info.URI {
				info.Aliases = append(info.Aliases, n)
			}
		}
		infos = append(infos, info)
	}
	if def, err := m.validator.Dialect(""); err == nil {
		infos = append(infos, dialectInfo{Name: def.Name(), Aliases: []string{"(default)"}, Formats: def.Formats()})
	}

	if format == report.FormatJSON {
		enc := json.NewEncoder(m.reporterWriter)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	tw := tabwriter.NewWriter(m.reporterWriter, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tURI\tFORMATS")
	for _, info := range infos {
		name := info.Name
		if len(info.Aliases) > 0 {
			name += " " + strings.Join(info.Aliases, " ")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, info.URI, strings.Join(info.Formats, ", "))
	}
	return tw.Flush()
}

// crossCheckTarget is what the cross-checker compiles.
type crossCheckTarget struct {
	dialect string
	src     crosscheck.Source
}

// run validates every input of req, concurrently, and collects the results in
// input order.
func (m *CLIManager) run(ctx context.Context, req ValidateRequest) (*report.Report, error) {
	mode := req.DataMode
	if mode == "" {
		mode = DataModeFile
	}
	if req.InsertDefaults && mode != DataModeFile {
		return nil, &DataModeError{Flag: "insert-defaults", Mode: mode}
	}
	if req.Query != "" && mode != DataModeFile {
		return nil, &DataModeError{Flag: "query", Mode: mode}
	}
	if req.CrossCheck && mode == DataModeURI {
		return nil, &DataModeError{Flag: "cross-check", Mode: mode}
	}

	inputs := req.Inputs
	if mode == DataModeFile {
		var err error
		if inputs, err = m.paths.ExpandInputs(req.Inputs); err != nil {
			return nil, err
		}
	}

	var target *crossCheckTarget
	if req.CrossCheck {
		var err error
		if target, err = m.crossCheckTarget(req); err != nil {
			return nil, err
		}
	}

	opts := m.options(req, mode)
	r := &report.Report{
		Schema:    req.Schema,
		StartTime: time.Now(),
		Results:   make([]*report.Result, len(inputs)),
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, in := range inputs {
		g.Go(func() error {
			r.Results[i] = m.validateOne(gctx, req, mode, in, opts, target)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.EndTime = time.Now()
	return r, nil
}

func (m *CLIManager) options(req ValidateRequest, mode string) []jsonschema.ValidateOption {
	var opts []jsonschema.ValidateOption
	if req.Version != "" {
		opts = append(opts, jsonschema.WithVersion(req.Version))
	}
	if req.Fragment != "" {
		opts = append(opts, jsonschema.WithFragment(req.Fragment))
	}
	if req.Strict || m.cfg.Strict {
		opts = append(opts, jsonschema.WithStrict())
	}
	if req.List {
		opts = append(opts, jsonschema.WithList())
	}
	if req.InsertDefaults {
		opts = append(opts, jsonschema.WithInsertDefaults())
	}
	if req.ValidateSchema || m.cfg.ValidateSchema {
		opts = append(opts, jsonschema.WithValidateSchema())
	}
	switch mode {
	case DataModeFile:
		// readData has already decoded the file
		opts = append(opts, jsonschema.WithParseData(false))
	case DataModeURI:
		opts = append(opts, jsonschema.WithURI())
	case DataModeJSON:
		opts = append(opts, jsonschema.WithJSON())
	}
	return opts
}

func (m *CLIManager) validateOne(ctx context.Context, req ValidateRequest, mode, in string,
	opts []jsonschema.ValidateOption, target *crossCheckTarget,
) *report.Result {
	res := &report.Result{Input: in}

	var data any = in
	if mode == DataModeFile {
		doc, err := m.readData(in, req.Query)
		if err != nil {
			res.Err = err
			return res
		}
		data = doc
	}

	// The cross-check sees the data before defaults are inserted.
	if target != nil {
		res.CrossCheck = m.crossCheck(ctx, target, req.List, mode, in, data)
	}

	callOpts := append(slices.Clip(opts), jsonschema.WithContext(ctx))
	errs, err := m.validator.FullyValidate(req.Schema, data, callOpts...)
	if err != nil {
		res.Err = err
		return res
	}
	res.Errors = errs
	if req.InsertDefaults {
		res.Completed = data
	}
	return res
}

// readData loads a data file, narrowed to the --query selection when given.
func (m *CLIManager) readData(path, query string) (any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if query != "" && gjson.ValidBytes(content) {
		selected := gjson.GetBytes(content, query)
		if !selected.Exists() {
			return nil, &QueryError{Query: query, Input: path}
		}
		content = []byte(selected.Raw)
	}
	return m.validator.Parse(content)
}

func (m *CLIManager) crossCheckTarget(req ValidateRequest) (*crossCheckTarget, error) {
	d, err := m.validator.Dialect(req.Version)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(m.checker.Dialects(), d.Name()) {
		return nil, &crosscheck.UnsupportedDialectError{Dialect: d.Name()}
	}

	var src crosscheck.Source
	if doc, pErr := m.validator.Parse([]byte(req.Schema)); pErr == nil {
		u, err := uri.Normalize(inlineSchemaName, "")
		if err != nil {
			return nil, err
		}
		src = crosscheck.Source{URL: u.WithoutFragment().String(), Doc: doc}
	} else {
		u, err := uri.Normalize(req.Schema, "")
		if err != nil {
			return nil, err
		}
		src = crosscheck.Source{URL: u.WithoutFragment().String()}
	}
	if req.Fragment != "" {
		src.URL += req.Fragment
	}
	return &crossCheckTarget{dialect: d.Name(), src: src}, nil
}

// crossCheck runs the second implementation. Failures to run it are logged
// and leave the result without a verdict.
func (m *CLIManager) crossCheck(
	ctx context.Context, t *crossCheckTarget, list bool, mode, in string, data any,
) *crosscheck.Verdict {
	if s, ok := data.(string); ok && mode == DataModeJSON {
		parsed, err := m.validator.Parse([]byte(s))
		if err != nil {
			m.logger.Warn("cross-check skipped", "input", in, "error", err)
			return nil
		}
		data = parsed
	}

	items := []any{data}
	if list {
		arr, ok := data.([]any)
		if !ok {
			m.logger.Warn("cross-check skipped: list data is not an array", "input", in)
			return nil
		}
		items = arr
	}

	verdict := &crosscheck.Verdict{Valid: true}
	for _, item := range items {
		v, err := m.checker.Check(ctx, t.dialect, t.src, item)
		if err != nil {
			m.logger.Warn("cross-check skipped", "input", in, "error", err)
			return nil
		}
		if !v.Valid {
			return v
		}
	}
	return verdict
}

func (m *CLIManager) write(req ValidateRequest, r *report.Report) error {
	reporter, err := report.New(req.Format, req.Verbose, req.UseColour)
	if err != nil {
		return err
	}
	return reporter.Write(m.reporterWriter, r)
}

// watchPaths lists the local files and directories a watch covers.
func (m *CLIManager) watchPaths(req ValidateRequest) []string {
	var paths []string
	if _, err := m.validator.Parse([]byte(req.Schema)); err != nil {
		if u, uErr := uri.Normalize(req.Schema, ""); uErr == nil && u.Scheme == "file" {
			paths = append(paths, uri.LocalPath(u))
		}
	}

	mode := req.DataMode
	if mode != "" && mode != DataModeFile {
		return paths
	}
	for _, in := range req.Inputs {
		if strings.ContainsAny(in, "*?[") {
			matches, _ := m.paths.ExpandInputs([]string{in})
			paths = append(paths, matches...)
			continue
		}
		paths = append(paths, in)
	}
	return paths
}
