// Package uri parses, normalizes and resolves the URIs used to identify schema
// documents and to point into them.
package uri

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// URI is a parsed URI that remembers whether an explicit fragment marker was
// present, so that "foo#" and "foo" render differently.
type URI struct {
	url.URL
	HasFragment bool
}

// String renders the URI, keeping an explicit empty fragment as a trailing '#'.
func (u *URI) String() string {
	s := u.URL.String()
	if u.HasFragment && u.Fragment == "" && !strings.HasSuffix(s, "#") {
		s += "#"
	}
	return s
}

// Clone returns a deep copy of u.
func (u *URI) Clone() *URI {
	if u == nil {
		return nil
	}
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}

// IsAbs reports whether the URI carries a scheme.
func (u *URI) IsAbs() bool {
	return u.Scheme != ""
}

// WithoutFragment returns a copy of u with no fragment and no fragment marker.
func (u *URI) WithoutFragment() *URI {
	c := u.Clone()
	c.Fragment = ""
	c.RawFragment = ""
	c.HasFragment = false
	return c
}

// WithEmptyFragment returns a copy of u whose fragment is the explicit empty marker.
func (u *URI) WithEmptyFragment() *URI {
	c := u.WithoutFragment()
	c.HasFragment = true
	return c
}

// WithFragment returns a copy of u with the given (unescaped) fragment.
func (u *URI) WithFragment(fragment string) *URI {
	c := u.WithoutFragment()
	c.Fragment = fragment
	c.HasFragment = true
	return c
}

// FileURI converts a filesystem path into a file URI.
func FileURI(p string) *URI {
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return &URI{URL: url.URL{Scheme: "file", Path: p}}
}

// Unescape percent-decodes text, returning it unchanged when it is not valid
// percent-encoding.
func Unescape(text string) string {
	s, err := url.PathUnescape(text)
	if err != nil {
		return text
	}
	return s
}

// UnescapedPath returns the decoded path component of u.
func UnescapedPath(u *URI) string {
	return u.Path
}

// LocalPath returns the filesystem path named by a file URI.
func LocalPath(u *URI) string {
	return filepath.FromSlash(u.Path)
}

// StripFragment returns u without its fragment.
func StripFragment(u *URI) *URI {
	return u.WithoutFragment()
}

// cleanHost gives a hierarchical URI with an authority but no path the root path.
func cleanHost(u *URI) {
	if u.Host != "" && u.Path == "" && u.Opaque == "" {
		u.Path = "/"
	}
}

// joinPath resolves ref against the directory of base, removing dot segments.
func joinPath(base, ref string) string {
	if strings.HasPrefix(ref, "/") {
		return cleanPath(ref)
	}
	dir := base
	if i := strings.LastIndex(base, "/"); i >= 0 {
		dir = base[:i+1]
	} else {
		dir = ""
	}
	return cleanPath(dir + ref)
}

// cleanPath removes dot segments, keeping a trailing slash.
func cleanPath(p string) string {
	if p == "" {
		return p
	}
	trailing := strings.HasSuffix(p, "/") || strings.HasSuffix(p, "/.") || strings.HasSuffix(p, "/..")
	c := path.Clean(p)
	if trailing && c != "/" {
		c += "/"
	}
	return c
}
