package httpserver

import (
	"crypto/sha1"
	"embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"review_pulse/internal/app"
	"review_pulse/internal/domain"
)

//go:embed web
var webFS embed.FS

type Handlers struct{ Q *app.QueryService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/dashboard", h.dashboard)
	s.mux.Get("/v1/dashboard/filters", h.filters)
	s.mux.Get("/", h.index)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func (h *Handlers) index(w http.ResponseWriter, r *http.Request) {
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "dashboard page missing")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (h *Handlers) filters(w http.ResponseWriter, r *http.Request) {
	opts, err := h.Q.FilterOptions(r.Context())
	if err != nil {
		loadProblem(w, err)
		return
	}
	writeJSON(w, r, opts)
}

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	// parameter defaults come from the dataset itself
	opts, err := h.Q.FilterOptions(r.Context())
	if err != nil {
		loadProblem(w, err)
		return
	}
	spec, err := specFromQuery(r.URL.Query(), opts.Default)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}
	view, err := h.Q.Dashboard(r.Context(), spec)
	if err != nil {
		loadProblem(w, err)
		return
	}
	writeJSON(w, r, view)
}

// loadProblem maps a failed dataset read to 503; anything else is a 500.
func loadProblem(w http.ResponseWriter, err error) {
	var dle *domain.DataLoadError
	if errors.As(err, &dle) {
		log.Error().Err(err).Msg("dataset unavailable")
		writeProblem(w, http.StatusServiceUnavailable, "Dataset Unavailable", "the reviews dataset could not be loaded")
		return
	}
	log.Error().Err(err).Msg("dashboard query failed")
	writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
}

// specFromQuery overlays query parameters on the default spec. Dates accept
// YYYY-MM-DD or RFC 3339; platform and type repeat for multi-select.
func specFromQuery(q url.Values, def domain.FilterSpec) (domain.FilterSpec, error) {
	spec := def

	if v := q.Get("start"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			return spec, fmt.Errorf("start: %w", err)
		}
		spec.Start = t
	}
	if v := q.Get("end"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			return spec, fmt.Errorf("end: %w", err)
		}
		spec.End = t
	}
	if vs, ok := q["platform"]; ok {
		spec.Platforms = vs
	}
	if vs, ok := q["type"]; ok {
		spec.Types = vs
	}
	if v := q.Get("rating_min"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return spec, fmt.Errorf("rating_min must be a number")
		}
		spec.RatingMin = f
	}
	if v := q.Get("rating_max"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return spec, fmt.Errorf("rating_max must be a number")
		}
		spec.RatingMax = f
	}
	if spec.RatingMin > spec.RatingMax {
		return spec, fmt.Errorf("rating_min must not exceed rating_max")
	}
	return spec, nil
}

func parseDateParam(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%q is not a date (want YYYY-MM-DD)", v)
}
