package schema

import (
	"context"

	"github.com/andyballingall/json-schema-validator/internal/uri"
)

// DocumentLoader returns the raw content behind a URI.
type DocumentLoader interface {
	Load(ctx context.Context, u *uri.URI) ([]byte, error)
}

// Parser turns JSON text into a value tree.
type Parser interface {
	Parse(data []byte) (any, error)
}

// Reader fetches and parses external documents, subject to optional accept
// policies.
type Reader struct {
	Env    *Env
	Loader DocumentLoader
	Parser Parser
	// AcceptURI, when set, must approve every non-file URI.
	AcceptURI func(u *uri.URI) bool
	// AcceptFile, when set, must approve every local path.
	AcceptFile func(path string) bool
}

// ReadDocument fetches and parses the document at u.
func (r *Reader) ReadDocument(ctx context.Context, u *uri.URI) (any, error) {
	if u.Scheme == "file" {
		if r.AcceptFile != nil && !r.AcceptFile(uri.LocalPath(u)) {
			return nil, &ReadRefusedError{URI: uri.LocalPath(u), Kind: "file"}
		}
	} else if r.AcceptURI != nil && !r.AcceptURI(u) {
		return nil, &ReadRefusedError{URI: u.String(), Kind: "uri"}
	}

	data, err := r.Loader.Load(ctx, u)
	if err != nil {
		return nil, err
	}
	return r.Parser.Parse(data)
}

// Read fetches the document at u and wraps it in a node identified by u. The
// document's own $schema selects its dialect, otherwise parent applies.
func (r *Reader) Read(ctx context.Context, u *uri.URI, parent *Dialect) (*Node, error) {
	doc, err := r.ReadDocument(ctx, u)
	if err != nil {
		return nil, err
	}
	return r.Env.NewNode(doc, u, parent)
}
