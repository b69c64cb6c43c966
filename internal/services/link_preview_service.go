package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"gatekeeper/internal/models/response_models"
	"gatekeeper/pkg/netguard"
	"gatekeeper/pkg/utils"
)

const (
	PreviewUserAgent    = "Mozilla/5.0 (compatible; GatekeeperBot/1.0; +link-preview)"
	DefaultFetchTimeout = 5 * time.Second
	maxPreviewBytes     = 1 << 20
)

type LinkPreviewServiceInterface interface {
	// Preview validates rawURL with the fetch guard and only then fetches it.
	// Guard refusals are returned as *netguard.RejectionError, network and
	// origin failures as utils.ErrFetchFailed.
	Preview(ctx context.Context, rawURL string) (response_models.LinkPreview, error)
}

type LinkPreviewService struct {
	guard   *netguard.Guard
	client  *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

type LinkPreviewOption func(*LinkPreviewService)

// WithHTTPClient replaces the guarded client. Callers doing so take over
// responsibility for dial-time address checks.
func WithHTTPClient(client *http.Client) LinkPreviewOption {
	return func(s *LinkPreviewService) {
		s.client = client
	}
}

func WithFetchTimeout(d time.Duration) LinkPreviewOption {
	return func(s *LinkPreviewService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewLinkPreviewService(guard *netguard.Guard, logger *zap.Logger, opts ...LinkPreviewOption) *LinkPreviewService {
	s := &LinkPreviewService{
		guard:   guard,
		timeout: DefaultFetchTimeout,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = guard.HTTPClient(s.timeout)
	}
	return s
}

func (s *LinkPreviewService) Preview(ctx context.Context, rawURL string) (response_models.LinkPreview, error) {
	target, err := s.guard.Validate(ctx, rawURL)
	if err != nil {
		return response_models.LinkPreview{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return response_models.LinkPreview{}, fmt.Errorf("%w: build request: %v", utils.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", PreviewUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		if rejection, ok := netguard.IsRejection(err); ok {
			return response_models.LinkPreview{}, rejection
		}
		return response_models.LinkPreview{}, fmt.Errorf("%w: %v", utils.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return response_models.LinkPreview{}, fmt.Errorf("%w: origin responded %d", utils.ErrFetchFailed, resp.StatusCode)
	}

	meta := utils.ParsePageMeta(io.LimitReader(resp.Body, maxPreviewBytes))

	s.logger.Debug("link preview fetched",
		zap.String("host", target.Host),
		zap.Int("status", resp.StatusCode))

	return response_models.LinkPreview{
		Title:       meta.Title,
		Description: meta.Description,
		Image:       absoluteURL(resp.Request.URL, meta.Image),
		URL:         target.String(),
	}, nil
}

// absoluteURL resolves ref against the final page URL; unparsable
// references are dropped.
func absoluteURL(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base == nil {
		return u.String()
	}
	return base.ResolveReference(u).String()
}
