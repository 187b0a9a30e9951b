package crosscheck

import (
	"context"
	"errors"
	"maps"
	"slices"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/andyballingall/json-schema-validator/internal/drafts"
	"github.com/andyballingall/json-schema-validator/internal/schema"
	"github.com/andyballingall/json-schema-validator/internal/uri"
)

var santhoshDrafts = map[string]*jsonschema.Draft{
	drafts.DefaultName: jsonschema.Draft4,
	drafts.Draft4:      jsonschema.Draft4,
	drafts.Draft6:      jsonschema.Draft6,
}

// NewSanthosh returns a Checker backed by santhosh-tekuri/jsonschema/v6.
// Referenced schemas are fetched through loader and decoded by parser.
func NewSanthosh(loader schema.DocumentLoader, parser schema.Parser) Checker {
	return &santhoshChecker{loader: loader, parser: parser}
}

type santhoshChecker struct {
	loader schema.DocumentLoader
	parser schema.Parser
}

func (s *santhoshChecker) Dialects() []string {
	return slices.Sorted(maps.Keys(santhoshDrafts))
}

func (s *santhoshChecker) Check(ctx context.Context, dialect string, src Source, data any) (*Verdict, error) {
	draft, ok := santhoshDrafts[dialect]
	if !ok {
		return nil, &UnsupportedDialectError{Dialect: dialect}
	}

	c := jsonschema.NewCompiler()
	c.DefaultDraft(draft)
	c.UseLoader(&urlLoader{ctx: ctx, loader: s.loader, parser: s.parser})
	if src.Doc != nil {
		if err := c.AddResource(src.URL, schema.CopyData(src.Doc)); err != nil {
			return nil, &CompileError{URL: src.URL, Wrapped: err}
		}
	}

	sch, err := c.Compile(src.URL)
	if err != nil {
		return nil, &CompileError{URL: src.URL, Wrapped: err}
	}

	if err := sch.Validate(schema.CopyData(data)); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return &Verdict{Detail: ve.Error()}, nil
		}
		return nil, err
	}
	return &Verdict{Valid: true}, nil
}

// urlLoader adapts a schema.DocumentLoader to jsonschema.URLLoader.
type urlLoader struct {
	ctx    context.Context
	loader schema.DocumentLoader
	parser schema.Parser
}

func (l *urlLoader) Load(url string) (any, error) {
	u, err := uri.Parse(url)
	if err != nil {
		return nil, err
	}
	data, err := l.loader.Load(l.ctx, u)
	if err != nil {
		return nil, err
	}
	return l.parser.Parse(data)
}
