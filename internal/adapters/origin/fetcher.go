package origin

import (
	"context"
	"crypto/tls"
	"fmt"
	"hashimg/internal/core/domain"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultTimeout      = 8 * time.Second
	DefaultMaxBodyBytes = 64 << 20
)

type Config struct {
	// Timeout bounds the whole exchange, including reading the body.
	Timeout time.Duration
	// InsecureSkipVerify disables TLS certificate checks against the blob store.
	InsecureSkipVerify bool
	// MaxBodyBytes caps how much of the origin response is read.
	MaxBodyBytes int64
}

// Fetcher retrieves originals over plain HTTP(S). One attempt, no retries.
type Fetcher struct {
	client       *http.Client
	maxBodyBytes int64
}

func NewFetcher(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSHandshakeTimeout = cfg.Timeout
	transport.TLSClientConfig = &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.InsecureSkipVerify, // #nosec G402 -- blob stores behind test/internal CAs
	}

	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

// Fetch returns the origin body on 200. Any other status comes back as a
// *domain.OriginError carrying the raw body.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*domain.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		err = fmt.Errorf("error creating request: %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}

	res, err := f.client.Do(req)
	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrOriginUnavailable, err)
		log.Warn().Err(err).Send()
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		// Error documents are relayed to the caller, cut at the body limit.
		body, err := io.ReadAll(io.LimitReader(res.Body, f.maxBodyBytes))
		if err != nil {
			log.Warn().Err(err).Int("status", res.StatusCode).Msg("error reading origin error body")
		}
		log.Debug().Int("status", res.StatusCode).Int("bytes", len(body)).Msg("unexpected origin status")
		return nil, &domain.OriginError{StatusCode: res.StatusCode, Body: body}
	}

	body, err := readAllWithLimit(res.Body, f.maxBodyBytes)
	if err != nil {
		log.Warn().Err(err).Int("status", res.StatusCode).Msg("error reading origin response")
		return nil, err
	}

	return &domain.FetchResult{
		StatusCode:  res.StatusCode,
		Body:        body,
		ContentType: res.Header.Get("Content-Type"),
	}, nil
}

func readAllWithLimit(r io.Reader, limit int64) ([]byte, error) {
	lr := &io.LimitedReader{R: r, N: limit + 1}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrOriginUnavailable, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: exceeded %d bytes", domain.ErrOriginTooLarge, limit)
	}

	return data, nil
}
