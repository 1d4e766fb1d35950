// Package api exposes the tag repair over HTTP. Every request carries its own
// model buffer; nothing is shared between requests.
package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/md3fix/internal/logger"
	"github.com/samcharles93/md3fix/internal/patcher"
	"github.com/samcharles93/md3fix/internal/version"
	"github.com/samcharles93/md3fix/pkg/md3"
)

// DefaultMaxBodyBytes bounds uploaded models when Config leaves it unset.
const DefaultMaxBodyBytes int64 = 64 << 20

const (
	HeaderRequestID = "X-Request-Id"
	HeaderRecords   = "X-Md3fix-Records"
	HeaderChanged   = "X-Md3fix-Changed"
)

type Config struct {
	MaxBodyBytes int64
	// Strict rejects models whose ident or version is not IDP3/15. Off by default:
	// only the counts and the tag lump offset are trusted.
	Strict bool
	Logger logger.Logger
}

type Server struct {
	maxBody int64
	strict  bool
	log     logger.Logger
}

func NewServer(cfg Config) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.MaxBodyBytes > md3.MaxFileSize {
		cfg.MaxBodyBytes = md3.MaxFileSize
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	return &Server{
		maxBody: cfg.MaxBodyBytes,
		strict:  cfg.Strict,
		log:     cfg.Logger,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/fix", s.handleFix)
	e.POST("/v1/inspect", s.handleInspect)
	e.GET("/v1/version", s.handleVersion)
}

func (s *Server) handleFix(c *echo.Context) error {
	id := requestID(c)
	buf, err := s.readBody(c.Request().Body)
	if err != nil {
		return writeError(c, id, err)
	}

	dryRun, _ := strconv.ParseBool(c.QueryParam("dry_run"))
	log := s.log.With("request_id", id)
	res, err := patcher.Patch(c.Request().Context(), buf,
		patcher.WithLogger(log),
		patcher.WithSource(c.Request().RemoteAddr),
		patcher.WithDryRun(dryRun),
		patcher.WithStrict(s.strict),
	)
	if err != nil {
		log.Warn("fix rejected", "error", err, "bytes", len(buf))
		return writeError(c, id, err)
	}
	log.Info("model fixed", "records", res.Records, "changed", res.Changed, "dry_run", dryRun)

	h := c.Response().Header()
	h.Set(HeaderRecords, strconv.Itoa(res.Records))
	h.Set(HeaderChanged, strconv.Itoa(res.Changed))
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, buf)
}

func (s *Server) handleInspect(c *echo.Context) error {
	id := requestID(c)
	buf, err := s.readBody(c.Request().Body)
	if err != nil {
		return writeError(c, id, err)
	}
	in, err := patcher.Inspect(buf)
	if err != nil {
		return writeError(c, id, err)
	}
	return writeJSON(c, http.StatusOK, in)
}

func (s *Server) handleVersion(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, version.Resolve())
}

// readBody reads at most maxBody bytes; one byte more means the body is too large.
func (s *Server) readBody(r io.Reader) ([]byte, error) {
	var b bytes.Buffer
	n, err := b.ReadFrom(io.LimitReader(r, s.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if n == 0 {
		return nil, ErrEmptyBody
	}
	if n > s.maxBody {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, s.maxBody)
	}
	return b.Bytes(), nil
}

// requestID reuses the client's X-Request-Id or assigns a new one, and echoes it back.
func requestID(c *echo.Context) string {
	id := c.Request().Header.Get(HeaderRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Response().Header().Set(HeaderRequestID, id)
	return id
}
