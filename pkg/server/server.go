// Package server exposes an audit session over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/helmcode/hotel-audit/pkg/auditor"
	"github.com/helmcode/hotel-audit/pkg/deeplink"
	"github.com/helmcode/hotel-audit/pkg/export"
	"github.com/helmcode/hotel-audit/pkg/geo"
	"github.com/helmcode/hotel-audit/pkg/model"
	"github.com/helmcode/hotel-audit/pkg/session"
	"github.com/helmcode/hotel-audit/pkg/views"
)

type Options struct {
	// PublicURL is the base of share links.
	PublicURL string
	// Locator fills in the requester location when a request has none.
	Locator    geo.Locator
	GeoTimeout time.Duration
	// AllowedOrigins get CORS headers. Empty allows none.
	AllowedOrigins []string
	Logger         *zap.Logger
}

type Server struct {
	session *session.Session
	opts    Options
	logger  *zap.Logger
}

func New(sess *session.Session, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.GeoTimeout <= 0 {
		opts.GeoTimeout = 3 * time.Second
	}
	return &Server{session: sess, opts: opts, logger: opts.Logger}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/audits", s.handleSubmit)
	mux.HandleFunc("GET /v1/audits", s.handleDeepLink)
	mux.HandleFunc("POST /v1/audits/retry", s.handleRetry)
	mux.HandleFunc("GET /v1/report", s.handleReport)
	mux.HandleFunc("DELETE /v1/report", s.handleReset)
	mux.HandleFunc("POST /v1/report/filter", s.handleFilter)
	mux.HandleFunc("GET /v1/report/share", s.handleShare)
	mux.HandleFunc("GET /v1/report/export", s.handleExport)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return s.logRequests(s.cors(mux))
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		<-errCh
		return nil
	}
}

type auditRequest struct {
	HotelName      string              `json:"hotelName"`
	City           string              `json:"city"`
	EvaluationType string              `json:"evaluationType"`
	Location       *model.LocationHint `json:"location,omitempty"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}
	input := model.AuditInput{
		HotelName:      req.HotelName,
		City:           req.City,
		EvaluationType: model.EvaluationType(req.EvaluationType),
		Location:       req.Location,
	}
	s.runAudit(w, r, input)
}

// handleDeepLink starts the audit described by the hotel, city and type
// query parameters.
func (s *Server) handleDeepLink(w http.ResponseWriter, r *http.Request) {
	input, ok := deeplink.Read(deeplink.NewURLStore(r.URL))
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", "hotel and city query parameters are required", nil)
		return
	}
	s.runAudit(w, r, input)
}

func (s *Server) runAudit(w http.ResponseWriter, r *http.Request, input model.AuditInput) {
	// Audits are not cancelled when the client goes away.
	ctx := context.WithoutCancel(r.Context())
	if input.Location == nil && input.Validate() == nil {
		input.Location = geo.Resolve(ctx, s.opts.Locator, s.opts.GeoTimeout)
	}
	_, err := s.session.Submit(ctx, input)
	s.writeAuditResult(w, err)
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	_, err := s.session.Retry(context.WithoutCancel(r.Context()))
	s.writeAuditResult(w, err)
}

func (s *Server) writeAuditResult(w http.ResponseWriter, err error) {
	if err != nil {
		writeAuditError(w, err)
		return
	}
	s.writeView(w)
}

func (s *Server) writeView(w http.ResponseWriter) {
	view, err := s.session.View()
	if err != nil {
		writeError(w, http.StatusNotFound, "no_report", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("metric"); q != "" {
		metric, err := views.ParseMetric(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
			return
		}
		s.session.SetMetric(metric)
	}
	s.writeView(w)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}
	s.session.ToggleCategory(req.Category)
	s.writeView(w)
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	report := s.session.Report()
	if report == nil {
		writeError(w, http.StatusNotFound, "no_report", session.ErrNoReport.Error(), nil)
		return
	}
	share, err := deeplink.NewShare(s.opts.PublicURL, report)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, share)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	report := s.session.Report()
	if report == nil {
		writeError(w, http.StatusNotFound, "no_report", session.ErrNoReport.Error(), nil)
		return
	}
	doc := export.Render(report, s.session.Catalog())
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc.Markdown()))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"loading":   s.session.Loading(),
		"hasReport": s.session.Report() != nil,
	}
	if err := s.session.Err(); err != nil {
		status["error"] = auditor.UserMessage(err)
		status["retryable"] = auditor.Retryable(err)
	}
	writeJSON(w, http.StatusOK, status)
}

type errorBody struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Retryable bool              `json:"retryable"`
	Fields    map[string]string `json:"fields,omitempty"`
}

func writeAuditError(w http.ResponseWriter, err error) {
	var verr *auditor.ValidationError
	msg := auditor.UserMessage(err)
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusUnprocessableEntity, "invalid_input", msg, verr.Fields)
	case errors.Is(err, session.ErrAuditInProgress):
		writeError(w, http.StatusConflict, "in_progress", err.Error(), nil)
	case errors.Is(err, session.ErrNothingToRetry):
		writeError(w, http.StatusConflict, "nothing_to_retry", err.Error(), nil)
	case errors.Is(err, auditor.ErrCorruptedData):
		writeError(w, http.StatusUnprocessableEntity, "corrupted_data", msg, nil)
	case errors.Is(err, auditor.ErrEmptyResponse):
		writeError(w, http.StatusBadGateway, "empty_response", msg, nil)
	case errors.Is(err, auditor.ErrServiceUnavailable):
		writeError(w, http.StatusBadGateway, "service_unavailable", msg, nil)
	default:
		writeError(w, http.StatusInternalServerError, "internal", msg, nil)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string, fields map[string]string) {
	writeJSON(w, status, errorBody{
		Error:     msg,
		Code:      code,
		Retryable: code == "corrupted_data" || code == "empty_response" || code == "service_unavailable",
		Fields:    fields,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
