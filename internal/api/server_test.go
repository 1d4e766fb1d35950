package api

import (
	"bytes"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/md3fix/internal/logger"
	"github.com/samcharles93/md3fix/internal/patcher"
	"github.com/samcharles93/md3fix/pkg/md3"
	"github.com/samcharles93/md3fix/pkg/md3/md3test"
)

func newTestEcho(cfg Config) *echo.Echo {
	if cfg.Logger == nil {
		cfg.Logger = logger.Text(io.Discard, slog.LevelError)
	}
	e := echo.New()
	NewServer(cfg).Register(e)
	return e
}

func doBody(t *testing.T, e *echo.Echo, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEOctetStream)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func weaponModel() (md3.Header, []byte) {
	h := md3test.Header(1, 1, 8)
	return h, md3test.Build(h, []md3.Tag{
		md3test.Tag("tag_weapon", mgl32.Vec3{}, md3.Matrix{2, 0, 0, 0, 3, 0, 0, 0, 0}),
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ResponseError {
	t.Helper()
	var body struct {
		Error ResponseError `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return body.Error
}

func TestFix(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{Strict: true})
	h, model := weaponModel()
	rec := doBody(t, e, http.MethodPost, "/v1/fix", model)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != echo.MIMEOctetStream {
		t.Fatalf("content type: %q", ct)
	}
	if rec.Header().Get(HeaderRecords) != "1" || rec.Header().Get(HeaderChanged) != "1" {
		t.Fatalf("count headers: records=%q changed=%q", rec.Header().Get(HeaderRecords), rec.Header().Get(HeaderChanged))
	}
	if rec.Header().Get(HeaderRequestID) == "" {
		t.Fatal("missing request id")
	}

	out := rec.Body.Bytes()
	if len(out) != len(model) {
		t.Fatalf("length: got %d want %d", len(out), len(model))
	}
	table, err := md3.NewTagTable(out, h)
	if err != nil {
		t.Fatalf("tag table: %v", err)
	}
	if got := table.Record(0).Matrix(); got != (md3.Matrix{1, 0, 0, 0, 1, 0, 0, 0, 0}) {
		t.Fatalf("matrix: %v", got)
	}
}

func TestFixDryRun(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{})
	_, model := weaponModel()
	rec := doBody(t, e, http.MethodPost, "/v1/fix?dry_run=true", model)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), model) {
		t.Fatal("dry run should return the model unchanged")
	}
	if rec.Header().Get(HeaderChanged) != "1" {
		t.Fatalf("changed header: %q", rec.Header().Get(HeaderChanged))
	}
}

func TestFixKeepsClientRequestID(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{})
	_, model := weaponModel()
	req := httptest.NewRequest(http.MethodPost, "/v1/fix", bytes.NewReader(model))
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("request id: %q", got)
	}
}

func TestFixErrors(t *testing.T) {
	t.Parallel()

	h, model := weaponModel()
	old := h
	old.Version = 14
	bad := md3test.Build(old, nil)

	tests := []struct {
		name    string
		cfg     Config
		body    []byte
		status  int
		errType string
	}{
		{"empty", Config{}, nil, http.StatusBadRequest, "invalid_request_error"},
		{"too large", Config{MaxBodyBytes: 64}, model, http.StatusRequestEntityTooLarge, "request_too_large"},
		{"short header", Config{}, model[:50], http.StatusUnprocessableEntity, "malformed_layout"},
		{"truncated table", Config{}, model[:h.TagOffset+20], http.StatusUnprocessableEntity, "malformed_layout"},
		{"strict version", Config{Strict: true}, bad, http.StatusUnprocessableEntity, "unsupported_model"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := doBody(t, newTestEcho(tt.cfg), http.MethodPost, "/v1/fix", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d body=%s", tt.status, rec.Code, rec.Body.String())
			}
			re := decodeError(t, rec)
			if re.Type != tt.errType {
				t.Fatalf("error type: got %q want %q", re.Type, tt.errType)
			}
			if re.RequestID == "" || re.RequestID != rec.Header().Get(HeaderRequestID) {
				t.Fatalf("request id mismatch: body=%q header=%q", re.RequestID, rec.Header().Get(HeaderRequestID))
			}
		})
	}
}

func TestInspect(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{})
	_, model := weaponModel()
	rec := doBody(t, e, http.MethodPost, "/v1/inspect", model)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var in patcher.Inspection
	if err := json.Unmarshal(rec.Body.Bytes(), &in); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.Ident != "IDP3" || in.Frames != 1 || in.TagsPerFrame != 1 || in.Unhealthy != 1 {
		t.Fatalf("inspection: %+v", in)
	}
	if len(in.Tags) != 1 || in.Tags[0].Name != "tag_weapon" || in.Tags[0].Normalized {
		t.Fatalf("tags: %+v", in.Tags)
	}
}

func TestInspectNonFiniteMatrix(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{})
	h := md3test.Header(1, 1, 0)
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	model := md3test.Build(h, []md3.Tag{
		md3test.Tag("tag_broken", mgl32.Vec3{}, md3.Matrix{nan, 0, 0, 0, inf, 0, 0, 0, 1}),
	})
	rec := doBody(t, e, http.MethodPost, "/v1/inspect", model)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var in patcher.Inspection
	if err := json.Unmarshal(rec.Body.Bytes(), &in); err != nil {
		t.Fatalf("decode: %v (%s)", err, rec.Body.String())
	}
	tag := in.Tags[0]
	if !math.IsNaN(float64(tag.Matrix[0])) || !math.IsInf(float64(tag.Matrix[4]), 1) || tag.Matrix[8] != 1 {
		t.Fatalf("matrix: %v", tag.Matrix)
	}
	if tag.Normalized || tag.Orthonormal || !math.IsNaN(float64(tag.Det)) {
		t.Fatalf("tag: %+v", tag)
	}
}

func TestFixDefaultTrustsLayout(t *testing.T) {
	t.Parallel()

	h := md3test.Header(1, 1, 0)
	h.Ident = [4]byte{}
	h.Version = 0
	model := md3test.Build(h, []md3.Tag{
		md3test.Tag("tag_weapon", mgl32.Vec3{}, md3.Matrix{2, 0, 0, 0, 3, 0, 0, 0, 0}),
	})
	rec := doBody(t, newTestEcho(Config{}), http.MethodPost, "/v1/fix", model)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(HeaderChanged) != "1" {
		t.Fatalf("changed header: %q", rec.Header().Get(HeaderChanged))
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{})
	req := httptest.NewRequest(http.MethodGet, "/v1/version", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v, _ := body["version"].(string); v == "" {
		t.Fatalf("missing version: %s", rec.Body.String())
	}
}
