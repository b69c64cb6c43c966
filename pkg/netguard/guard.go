// Package netguard validates user-supplied URLs before the server fetches
// them. A URL passes only if its scheme is http(s), its hostname is not a
// loopback or private literal, and every address it resolves to is public.
package netguard

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"
)

const DefaultLookupTimeout = 3 * time.Second

// Stage names the validation step that rejected a URL.
type Stage string

const (
	StageParse           Stage = "parse"
	StageScheme          Stage = "scheme"
	StageHostname        Stage = "hostname"
	StagePrivateIPv4     Stage = "private_ipv4"
	StageIPv6Loopback    Stage = "ipv6_loopback"
	StageResolve         Stage = "resolve"
	StageResolvedAddress Stage = "resolved_address"
)

const (
	reasonInvalidURL      = "Ungültige URL"
	reasonScheme          = "Nur HTTP- und HTTPS-URLs sind erlaubt"
	reasonLocalHost       = "Zugriff auf lokale Adressen ist nicht erlaubt"
	reasonPrivateNetwork  = "Zugriff auf private Netzwerke ist nicht erlaubt"
	reasonResolveFailed   = "Hostname konnte nicht aufgelöst werden"
	reasonResolvedPrivate = "Hostname verweist auf eine private oder lokale Adresse"
)

// RejectionError is returned for every URL the guard refuses. Reason is safe
// to show to the caller.
type RejectionError struct {
	Stage  Stage
	Reason string
	Err    error
}

func (e *RejectionError) Error() string {
	if e.Err != nil {
		return string(e.Stage) + ": " + e.Reason + ": " + e.Err.Error()
	}
	return string(e.Stage) + ": " + e.Reason
}

func (e *RejectionError) Unwrap() error { return e.Err }

func reject(stage Stage, reason string, err error) *RejectionError {
	return &RejectionError{Stage: stage, Reason: reason, Err: err}
}

// Resolver is satisfied by *net.Resolver.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// RejectHook observes every rejection, e.g. for metrics.
type RejectHook func(stage Stage)

type Guard struct {
	resolver      Resolver
	lookupTimeout time.Duration
	onReject      RejectHook
}

type Option func(*Guard)

func WithResolver(r Resolver) Option {
	return func(g *Guard) {
		g.resolver = r
	}
}

func WithLookupTimeout(d time.Duration) Option {
	return func(g *Guard) {
		if d > 0 {
			g.lookupTimeout = d
		}
	}
}

func WithRejectHook(hook RejectHook) Option {
	return func(g *Guard) {
		g.onReject = hook
	}
}

func New(opts ...Option) *Guard {
	g := &Guard{
		resolver:      net.DefaultResolver,
		lookupTimeout: DefaultLookupTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Validate runs the syntactic checks and then resolves the hostname,
// rejecting if any returned address is disallowed. It must succeed before
// any outbound request is made for rawURL.
func (g *Guard) Validate(ctx context.Context, rawURL string) (*url.URL, error) {
	u, err := g.validateSyntax(rawURL)
	if err != nil {
		return nil, g.observe(err)
	}

	if _, err := g.resolvePublic(ctx, normalizeHostname(u.Hostname())); err != nil {
		return nil, g.observe(err)
	}

	return u, nil
}

func (g *Guard) validateSyntax(rawURL string) (*url.URL, *RejectionError) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, reject(StageParse, reasonInvalidURL, err)
	}
	if u.Host == "" || u.Hostname() == "" {
		return nil, reject(StageParse, reasonInvalidURL, nil)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, reject(StageScheme, reasonScheme, nil)
	}

	host := normalizeHostname(u.Hostname())
	if isBlockedHostname(host) {
		return nil, reject(StageHostname, reasonLocalHost, nil)
	}
	if isPrivateIPv4Literal(host) {
		return nil, reject(StagePrivateIPv4, reasonPrivateNetwork, nil)
	}
	if isBracketedLoopback(u.Host) {
		return nil, reject(StageIPv6Loopback, reasonLocalHost, nil)
	}

	return u, nil
}

// resolvePublic returns all addresses for host, or a rejection if the lookup
// fails, returns nothing, or yields any disallowed address.
func (g *Guard) resolvePublic(ctx context.Context, host string) ([]net.IPAddr, *RejectionError) {
	ctx, cancel := context.WithTimeout(ctx, g.lookupTimeout)
	defer cancel()

	addrs, err := g.resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, reject(StageResolve, reasonResolveFailed, err)
	}
	if len(addrs) == 0 {
		return nil, reject(StageResolve, reasonResolveFailed, errors.New("no addresses"))
	}

	for _, addr := range addrs {
		if IsDisallowedIP(addr.IP) {
			return nil, reject(StageResolvedAddress, reasonResolvedPrivate, nil)
		}
	}

	return addrs, nil
}

func (g *Guard) observe(err *RejectionError) error {
	if g.onReject != nil {
		g.onReject(err.Stage)
	}
	return err
}
