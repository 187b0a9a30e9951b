package uri

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Normalizer parses and resolves URIs, memoizing parses by raw text.
type Normalizer struct {
	mu     sync.Mutex
	parsed map[string]*URI
	getwd  func() (string, error)
}

// NewNormalizer creates a Normalizer that resolves relative file references
// against the directory returned by getwd (os.Getwd when nil).
func NewNormalizer(getwd func() (string, error)) *Normalizer {
	if getwd == nil {
		getwd = os.Getwd
	}
	return &Normalizer{
		parsed: make(map[string]*URI),
		getwd:  getwd,
	}
}

// Default is the process-wide normalizer used by the package-level functions.
var Default = NewNormalizer(nil)

// Parse parses text, returning a copy of any memoized result.
func (n *Normalizer) Parse(text string) (*URI, error) {
	n.mu.Lock()
	cached, ok := n.parsed[text]
	n.mu.Unlock()
	if ok {
		return cached.Clone(), nil
	}

	u, err := url.Parse(text)
	if err != nil {
		return nil, &Error{URI: text, Wrapped: err}
	}
	parsed := &URI{URL: *u, HasFragment: strings.Contains(text, "#")}

	n.mu.Lock()
	n.parsed[text] = parsed
	n.mu.Unlock()

	return parsed.Clone(), nil
}

// ClearCache empties the parse memo.
func (n *Normalizer) ClearCache() {
	n.mu.Lock()
	defer n.mu.Unlock()
	clear(n.parsed)
}

// Len reports the number of memoized parses.
func (n *Normalizer) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.parsed)
}

// Normalize turns text into an absolute URI. Relative references are treated as
// filesystem paths below basePath (the working directory when empty) and become
// file URIs without fragment. Absolute URIs are returned as parsed.
func (n *Normalizer) Normalize(text, basePath string) (*URI, error) {
	u, err := n.Parse(text)
	if err != nil {
		return nil, err
	}
	return n.normalizeParsed(u, basePath)
}

func (n *Normalizer) normalizeParsed(u *URI, basePath string) (*URI, error) {
	if u.IsAbs() {
		cleanHost(u)
		return u, nil
	}

	p := filepath.FromSlash(u.Path)
	if !filepath.IsAbs(p) {
		if basePath == "" {
			wd, err := n.getwd()
			if err != nil {
				return nil, &Error{URI: u.String(), Wrapped: err}
			}
			basePath = wd
		}
		p = filepath.Join(basePath, p)
	}
	return FileURI(filepath.Clean(p)), nil
}

// AbsolutizeRef computes the identity of the document that ref points into:
// the fragment is always dropped (left as an explicit empty marker) and a
// relative path is joined onto base.
func (n *Normalizer) AbsolutizeRef(ref string, base *URI) (*URI, error) {
	r, err := n.Parse(ref)
	if err != nil {
		return nil, err
	}
	r = r.WithoutFragment()

	if r.IsAbs() {
		cleanHost(r)
		return r.WithEmptyFragment(), nil
	}

	b, err := n.normalizeParsed(base.WithoutFragment(), "")
	if err != nil {
		return nil, err
	}
	if r.Path == "" && r.Host == "" {
		return b.WithEmptyFragment(), nil
	}

	resolved := &URI{URL: *b.ResolveReference(&r.URL)}
	cleanHost(resolved)
	return resolved.WithEmptyFragment(), nil
}

// NormalizeRef resolves ref against base for pointer lookups. Scheme and
// authority come from base when ref is relative; an empty path inherits base's
// path; a rooted path replaces it; any other path joins base's directory. The
// result always carries a fragment, empty when ref had none.
func (n *Normalizer) NormalizeRef(ref string, base *URI) (*URI, error) {
	r, err := n.Parse(ref)
	if err != nil {
		return nil, err
	}

	out := r.Clone()
	if !r.IsAbs() {
		out.Scheme = base.Scheme
		if r.Host == "" {
			out.Host = base.Host
			out.User = base.User
			switch {
			case r.Path == "":
				out.Path = base.Path
				out.RawPath = base.RawPath
				if r.RawQuery == "" {
					out.RawQuery = base.RawQuery
				}
			default:
				out.Path = joinPath(base.Path, r.Path)
				out.RawPath = ""
			}
		}
	}
	cleanHost(out)

	if out.Fragment == "" {
		return out.WithEmptyFragment(), nil
	}
	return out, nil
}

// Normalize normalizes text with the default normalizer.
func Normalize(text, basePath string) (*URI, error) {
	return Default.Normalize(text, basePath)
}

// Parse parses text with the default normalizer.
func Parse(text string) (*URI, error) {
	return Default.Parse(text)
}

// AbsolutizeRef resolves a document identity with the default normalizer.
func AbsolutizeRef(ref string, base *URI) (*URI, error) {
	return Default.AbsolutizeRef(ref, base)
}

// NormalizeRef resolves a pointer reference with the default normalizer.
func NormalizeRef(ref string, base *URI) (*URI, error) {
	return Default.NormalizeRef(ref, base)
}

// ClearCache empties the default normalizer's parse memo.
func ClearCache() {
	Default.ClearCache()
}
