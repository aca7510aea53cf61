// internal/adapters/http_server/handlers.go
package httpserver

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"booking_search/internal/app"
	"booking_search/internal/domain"
)

const maxBodyBytes = 64 << 10

type Handlers struct{ S *app.SearchService }

type invalidParam struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type problem struct {
	Type          string         `json:"type"`
	Title         string         `json:"title"`
	Status        int            `json:"status"`
	Detail        string         `json:"detail,omitempty"`
	InvalidParams []invalidParam `json:"invalid-params,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Group(func(r chi.Router) {
		if s.opts.SearchRPS > 0 {
			r.Use(RateLimit(s.opts.SearchRPS))
		}
		r.Get("/v1/search", h.searchGet)
		r.Post("/v1/search", h.searchPost)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string, params []invalidParam) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, InvalidParams: params}
	if err := json.NewEncoder(w).Encode(p); err != nil {
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

// searchGet reads the record from the query string. services may repeat.
func (h *Handlers) searchGet(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	opts, ok := pageOptions(w, qs.Get("cursor"), qs.Get("limit"))
	if !ok {
		return
	}
	h.search(w, r, recordFromValues(qs), opts)
}

// searchPost reads the record from a JSON body. cursor and limit may come
// from the body or the query string; the query string wins.
func (h *Handlers) searchPost(w http.ResponseWriter, r *http.Request) {
	raw := map[string]any{}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil || len(body) > maxBodyBytes {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body is unreadable or too large", nil)
		return
	}
	if len(bytes.TrimSpace(body)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be a JSON object", nil)
			return
		}
	}

	qs := r.URL.Query()
	cursor, limit := qs.Get("cursor"), qs.Get("limit")
	if cursor == "" {
		if s, ok := raw["cursor"].(string); ok {
			cursor = s
		}
	}
	if limit == "" {
		if n, ok := raw["limit"].(json.Number); ok {
			limit = n.String()
		}
	}
	delete(raw, "cursor")
	delete(raw, "limit")

	opts, ok := pageOptions(w, cursor, limit)
	if !ok {
		return
	}
	h.search(w, r, raw, opts)
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request, raw map[string]any, opts domain.SearchOptions) {
	page, err := h.S.SearchGlobal(r.Context(), raw, opts)
	if err != nil {
		writeSearchError(w, err)
		return
	}

	etag, body := calcETagAndBody(page)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write search body")
	}
}

func writeSearchError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	var se *domain.SearchError
	switch {
	case errors.As(err, &ve):
		writeProblem(w, http.StatusBadRequest, "Invalid search query", ve.Error(),
			[]invalidParam{{Name: ve.Field, Reason: ve.Reason}})
	case errors.As(err, &se):
		w.Header().Set("Retry-After", "5")
		writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", se.Error(), nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Debug().Err(err).Msg("search abandoned")
		writeProblem(w, http.StatusGatewayTimeout, "Gateway Timeout", "search did not complete", nil)
	default:
		log.Error().Err(err).Msg("unexpected search error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "", nil)
	}
}

func pageOptions(w http.ResponseWriter, cursor, limit string) (domain.SearchOptions, bool) {
	opts := domain.SearchOptions{Cursor: cursor}
	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid search query", "invalid limit: must be an integer",
				[]invalidParam{{Name: "limit", Reason: "must be an integer"}})
			return opts, false
		}
		opts.Limit = n
	}
	return opts, true
}

func recordFromValues(qs url.Values) map[string]any {
	raw := make(map[string]any, len(qs))
	for k, vs := range qs {
		if k == "cursor" || k == "limit" || len(vs) == 0 {
			continue
		}
		raw[k] = vs
	}
	return raw
}
