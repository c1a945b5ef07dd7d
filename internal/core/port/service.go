package port

import (
	"context"
	"hashimg/internal/core/domain"
)

type ImageService interface {
	// Transform runs the full fetch, decode, orient, resize and encode pipeline for a raw key.
	Transform(ctx context.Context, rawKey string, params domain.TransformParams) (*domain.EncodedOutput, error)
	// OriginalURL returns a presigned URL for the original object without fetching it.
	OriginalURL(ctx context.Context, rawKey string) (string, error)
}
