package service

import (
	"context"
	"fmt"
	"hashimg/internal/core/domain"
	"hashimg/internal/core/port"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	StageSign   = "sign"
	StageFetch  = "fetch"
	StageDecode = "decode"
	StageEdit   = "transform"
	StageEncode = "encode"
)

// Images is the request pipeline shared by every handler invocation. It holds
// no per-request state.
type Images struct {
	signer    port.URLSigner
	fetcher   port.Fetcher
	decoder   port.ImageDecoder
	processor port.ImageProcessor
	recorder  port.StageRecorder
}

func NewImages(signer port.URLSigner, fetcher port.Fetcher, decoder port.ImageDecoder,
	processor port.ImageProcessor, recorder port.StageRecorder) *Images {
	return &Images{
		signer:    signer,
		fetcher:   fetcher,
		decoder:   decoder,
		processor: processor,
		recorder:  recorder,
	}
}

func (i *Images) Transform(ctx context.Context, rawKey string,
	params domain.TransformParams) (*domain.EncodedOutput, error) {
	l := log.Ctx(ctx).With().Str("key", rawKey).Logger()

	key, err := domain.ParseKey(rawKey)
	if err != nil {
		l.Debug().Err(err).Msg("rejecting key")
		return nil, err
	}

	url, err := i.readURL(ctx, key)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := i.fetcher.Fetch(ctx, url)
	i.observe(StageFetch, start, err)
	if err != nil {
		l.Warn().Err(err).Msg("origin fetch failed")
		return nil, err
	}

	l.Debug().Int("bytes", len(res.Body)).Str("contentType", res.ContentType).Msg("fetched original")

	start = time.Now()
	img, err := i.decoder.Decode(res.Body, key.Extension)
	i.observe(StageDecode, start, err)
	if err != nil {
		l.Warn().Err(err).Msg("decode failed")
		return nil, err
	}

	start = time.Now()
	img = i.processor.Normalize(img)
	img = i.processor.Resize(img, params)
	img = i.processor.Grayscale(img, params.Grayscale)
	i.observe(StageEdit, start, nil)

	start = time.Now()
	out, err := i.processor.EncodeJPEG(img, params.Quality)
	i.observe(StageEncode, start, err)
	if err != nil {
		l.Error().Err(err).Msg("encode failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrEncoding, err)
	}

	l.Debug().
		Int("width", img.Width()).
		Int("height", img.Height()).
		Int("quality", params.Quality).
		Int("bytes", len(out)).
		Msg("transformed")

	return domain.NewJPEGOutput(out), nil
}

func (i *Images) OriginalURL(ctx context.Context, rawKey string) (string, error) {
	key, err := domain.ParseKey(rawKey)
	if err != nil {
		return "", err
	}

	return i.readURL(ctx, key)
}

func (i *Images) readURL(ctx context.Context, key domain.ObjectKey) (string, error) {
	start := time.Now()
	url, err := i.signer.ReadURL(ctx, key.ObjectName())
	i.observe(StageSign, start, err)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("object", key.ObjectName()).Msg("could not sign read url")
		return "", err
	}

	return url, nil
}

func (i *Images) observe(stage string, start time.Time, err error) {
	if i.recorder == nil {
		return
	}
	i.recorder.ObserveStage(stage, time.Since(start), err)
}
