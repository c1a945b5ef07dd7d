package port

import (
	"context"
	"hashimg/internal/core/domain"
)

type URLSigner interface {
	// ReadURL returns a time-limited URL granting read access to the named object.
	ReadURL(ctx context.Context, objectName string) (string, error)
}

type Fetcher interface {
	// Fetch performs a single GET against url. A non-200 answer is returned as *domain.OriginError.
	Fetch(ctx context.Context, url string) (*domain.FetchResult, error)
}
