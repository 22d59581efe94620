// Package server exposes the roadmap pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/careerroadmap/internal/buildinfo"
	"github.com/muhammadolammi/careerroadmap/internal/events"
	"github.com/muhammadolammi/careerroadmap/internal/roadmap"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	maxBodyBytes    = 1 << 20
	requestIDHeader = "X-Request-ID"
	shutdownTimeout = 10 * time.Second
)

// Generator is the part of *roadmap.Generator the server needs.
type Generator interface {
	Run(ctx context.Context, in roadmap.ProfileInput) roadmap.Result
}

type Config struct {
	Address        string
	Port           int
	AllowedOrigins []string
}

type Server struct {
	cfg       Config
	generator Generator
	publisher events.Publisher
	logger    *zap.Logger
}

func New(cfg Config, gen Generator, pub events.Publisher, logger *zap.Logger) *Server {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Server{cfg: cfg, generator: gen, publisher: pub, logger: logger}
}

// Handler returns the full middleware-wrapped route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/roadmap", s.handleGenerate)
	mux.HandleFunc("POST /api/roadmap/export", s.handleExport)
	mux.HandleFunc("POST /api/roadmap/render", s.handleRender)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /version", s.handleVersion)

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, "Content-Disposition"},
	})
	return c.Handler(s.withRequestID(s.withLogging(mux)))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         net.JoinHostPort(s.cfg.Address, strconv.Itoa(s.cfg.Port)),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // generation is slow
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("starting API server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type ctxKey struct{}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestID(r.Context())),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// writeJSON logs encode failures at debug; they usually mean the client went away.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("failed to write JSON response", zap.Error(err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, roadmap.Result{Error: msg})
}

// decodeProfile accepts either a JSON body or a URL-encoded/multipart form.
func decodeProfile(r *http.Request) (roadmap.ProfileInput, error) {
	var in roadmap.ProfileInput
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return in, err
		}
		return in, nil
	}

	if ct == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return in, err
		}
	} else if err := r.ParseForm(); err != nil {
		return in, err
	}
	in = roadmap.ProfileInput{
		Discipline: r.PostFormValue("discipline"),
		Goals:      r.PostFormValue("goals"),
		Interests:  r.PostFormValue("interests"),
		Strengths:  r.PostFormValue("strengths"),
		Weaknesses: r.PostFormValue("weaknesses"),
	}
	return in, nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	in, err := decodeProfile(r)
	if err != nil {
		s.logger.Warn("invalid request body", zap.Error(err))
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := requestID(r.Context())
	// Requests missing required fields publish no status events.
	started := len(in.MissingFields()) == 0
	if started {
		s.publish(r.Context(), events.NewUpdate(id, events.StatusProcessing, "roadmap generation started"))
	}

	res := s.generator.Run(r.Context(), in)
	switch {
	case !started:
		s.logger.Warn("roadmap request rejected", zap.String("request_id", id), zap.Error(res.Err))
	case !res.OK():
		s.logger.Error("roadmap generation failed",
			zap.String("request_id", id),
			zap.String("kind", string(res.Kind)),
			zap.Error(res.Err),
		)
		s.publish(r.Context(), events.NewUpdate(id, events.StatusFailed, res.Error))
	default:
		s.publish(r.Context(), events.NewUpdate(id, events.StatusCompleted, "roadmap generated"))
	}
	s.writeJSON(w, res.Status(), res)
}

func (s *Server) publish(ctx context.Context, u events.Update) {
	if err := s.publisher.Publish(context.WithoutCancel(ctx), u); err != nil {
		s.logger.Warn("failed to publish update", zap.String("status", u.Status), zap.Error(err))
	}
}

func decodeRoadmap(w http.ResponseWriter, r *http.Request) (*roadmap.Roadmap, error) {
	var rm roadmap.Roadmap
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&rm); err != nil {
		return nil, err
	}
	return &rm, nil
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	rm, err := decodeRoadmap(w, r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid roadmap body")
		return
	}
	body, err := roadmap.Export(rm)
	if err != nil {
		s.logger.Error("failed to export roadmap", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to export roadmap")
		return
	}

	name := roadmap.ExportFilename(r.URL.Query().Get("discipline"))
	w.Header().Set("Content-Type", roadmap.ExportContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	if _, err := w.Write(body); err != nil {
		s.logger.Debug("failed to write export", zap.Error(err))
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	rm, err := decodeRoadmap(w, r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid roadmap body")
		return
	}
	html, err := roadmap.HTML(rm)
	if err != nil {
		s.logger.Error("failed to render roadmap", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to render roadmap")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(html); err != nil {
		s.logger.Debug("failed to write render", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, buildinfo.Info())
}
