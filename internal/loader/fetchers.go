package loader

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/andyballingall/json-schema-validator/internal/uri"
)

// FileFetcher reads local files named by file URIs.
type FileFetcher struct{}

func (FileFetcher) Fetch(ctx context.Context, u *uri.URI) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(uri.LocalPath(u))
}

// HTTPFetcher issues GET requests. Any non-2xx response is an error.
type HTTPFetcher struct {
	Client *http.Client
}

func (h *HTTPFetcher) Fetch(ctx context.Context, u *uri.URI) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/schema+json, application/json;q=0.9, */*;q=0.1")

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	return io.ReadAll(resp.Body)
}

// FTPFetcher retrieves files over FTP, logging in anonymously unless the URI
// carries credentials.
type FTPFetcher struct {
	Timeout time.Duration
}

func (f *FTPFetcher) Fetch(ctx context.Context, u *uri.URI) ([]byte, error) {
	addr := u.Host
	if u.Port() == "" {
		addr = net.JoinHostPort(u.Hostname(), "21")
	}

	conn, err := ftp.Dial(addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(f.Timeout))
	if err != nil {
		return nil, fmt.Errorf("ftp dial %s: %w", addr, err)
	}
	defer func() { _ = conn.Quit() }()

	user, pass := "anonymous", "anonymous"
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			pass = p
		}
	}
	if err = conn.Login(user, pass); err != nil {
		return nil, fmt.Errorf("ftp login: %w", err)
	}

	resp, err := conn.Retr(u.Path)
	if err != nil {
		return nil, fmt.Errorf("ftp retr %s: %w", u.Path, err)
	}
	defer resp.Close()

	return io.ReadAll(resp)
}
