package handler

import (
	"errors"
	"hashimg/internal/core/domain"
	"hashimg/internal/core/port"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

const requestIDHeader = "X-Request-ID"

const (
	nothingToSee     = "Nothing to see here"
	originStatusText = "Status code not 200"
)

type RouterConfig struct {
	EnableCORS bool
	// Metrics is mounted on /metrics when set.
	Metrics http.Handler
}

type HTTP struct {
	images port.ImageService
}

func NewHTTP(images port.ImageService) *HTTP {
	return &HTTP{images: images}
}

// NewRouter wires the public routes. Every route is stateless; the only shared
// state is what images holds.
func NewRouter(images port.ImageService, recorder port.RequestRecorder, cfg RouterConfig) *gin.Engine {
	h := NewHTTP(images)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestContext(recorder))

	if cfg.EnableCORS {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowMethods = []string{http.MethodGet, http.MethodHead, http.MethodOptions}
		r.Use(cors.New(corsConfig))
	}

	for path, handle := range map[string]gin.HandlerFunc{
		"/":       h.Home,
		"/i/:key": h.Transform,
		"/o/:key": h.Original,
	} {
		r.GET(path, handle)
		r.HEAD(path, handle)
	}
	r.GET("/healthz", h.Health)

	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	return r
}

func (h *HTTP) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"error": nothingToSee})
}

func (h *HTTP) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type originFailure struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Body       string `json:"body"`
}

func (h *HTTP) Transform(c *gin.Context) {
	params, err := domain.ParseTransformParams(c.Request.URL.Query())
	if err != nil {
		fail(c, err)
		return
	}

	out, err := h.images.Transform(c.Request.Context(), c.Param("key"), params)
	if err != nil {
		// Origin failures keep their historical shape: a 200 carrying the
		// upstream status and body.
		var originErr *domain.OriginError
		if errors.As(err, &originErr) {
			c.JSON(http.StatusOK, originFailure{
				Error:      originStatusText,
				StatusCode: originErr.StatusCode,
				Body:       string(originErr.Body),
			})
			return
		}

		fail(c, err)
		return
	}

	c.Header("Cache-Control", out.CacheControl())
	c.Data(http.StatusOK, out.MediaType, out.Bytes)
}

func (h *HTTP) Original(c *gin.Context) {
	url, err := h.images.OriginalURL(c.Request.Context(), c.Param("key"))
	if err != nil {
		fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, url)
}

func fail(c *gin.Context, err error) {
	status, public := classify(err)
	if status >= http.StatusInternalServerError {
		log.Ctx(c.Request.Context()).Error().Err(err).Int("status", status).Msg("request failed")
	}

	c.AbortWithStatusJSON(status, gin.H{"error": public})
}

// classify maps an error onto a status code and the message shown to callers.
// Client errors carry their detail; server errors only their class.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidKey), errors.Is(err, domain.ErrInvalidParams):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, err.Error()
	case errors.Is(err, domain.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, domain.ErrCorruptData):
		return http.StatusUnprocessableEntity, domain.ErrCorruptData.Error()
	case errors.Is(err, domain.ErrOriginTooLarge):
		return http.StatusBadGateway, domain.ErrOriginTooLarge.Error()
	case errors.Is(err, domain.ErrOriginUnavailable):
		return http.StatusBadGateway, domain.ErrOriginUnavailable.Error()
	case errors.Is(err, domain.ErrSigning):
		return http.StatusInternalServerError, domain.ErrSigning.Error()
	case errors.Is(err, domain.ErrEncoding):
		return http.StatusInternalServerError, domain.ErrEncoding.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// requestContext tags every request with an ID and a request-scoped logger,
// then records the outcome once the handler chain returns.
func requestContext(recorder port.RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			if u, err := uuid.NewV4(); err == nil {
				id = u.String()
			}
		}
		c.Header(requestIDHeader, id)

		l := log.With().
			Str("requestId", id).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		took := time.Since(start)
		status := c.Writer.Status()

		l.Info().Str("route", route).Int("status", status).Dur("took", took).Msg("handled request")

		if recorder != nil {
			recorder.ObserveRequest(route, status, took)
		}
	}
}
