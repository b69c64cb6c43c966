package netguard

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

const maxRedirects = 5

// DialContext resolves the target again at connect time and only dials
// addresses that pass IsDisallowedIP. This closes the window between
// Validate and the actual connection in which a rebinding DNS server could
// swap in a private address.
func (g *Guard) DialContext(dialer *net.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, g.observe(reject(StageParse, reasonInvalidURL, err))
		}

		addrs, rejection := g.resolvePublic(ctx, normalizeHostname(host))
		if rejection != nil {
			return nil, g.observe(rejection)
		}

		var lastErr error
		for _, a := range addrs {
			conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(a.IP.String(), port))
			if err == nil {
				return conn, nil
			}
			lastErr = err
		}
		return nil, lastErr
	}
}

// CheckRedirect validates every redirect target the same way as the
// original URL.
func (g *Guard) CheckRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	_, err := g.Validate(req.Context(), req.URL.String())
	return err
}

// HTTPClient returns a client whose connections and redirects are all
// subject to the guard. Proxies from the environment are ignored since a
// proxy would connect on our behalf and bypass the dial check.
func (g *Guard) HTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		Proxy:                 nil,
		DialContext:           g.DialContext(dialer),
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{
		Timeout:       timeout,
		Transport:     transport,
		CheckRedirect: g.CheckRedirect,
	}
}

// IsRejection reports whether err carries a RejectionError anywhere in its
// chain, which is the case when a connection or redirect was refused.
func IsRejection(err error) (*RejectionError, bool) {
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		return rejection, true
	}
	return nil, false
}
