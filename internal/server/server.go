// Package server provides the DevApply HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/devapply/devapply/internal/ai"
	"github.com/devapply/devapply/internal/config"
	"github.com/devapply/devapply/internal/fetch"
	"github.com/devapply/devapply/internal/logger"
	"github.com/devapply/devapply/internal/mockinterview"
	"github.com/devapply/devapply/internal/server/middleware"
	"github.com/devapply/devapply/internal/server/ratelimit"
	"github.com/devapply/devapply/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AIService is the model-backed work the API exposes directly.
type AIService interface {
	GenerateQuestion(ctx context.Context, sc mockinterview.SessionContext, c mockinterview.Category) (*mockinterview.GeneratedQuestion, error)
	AnalyzeAnswer(ctx context.Context, question, answer string, c mockinterview.Category, qctx json.RawMessage) (string, error)
	GenerateSolution(ctx context.Context, question string, c mockinterview.Category, qctx json.RawMessage, language mockinterview.Language) (string, error)
	GenerateSimilarQuestion(ctx context.Context, previous string, c mockinterview.Category, qctx json.RawMessage) (*mockinterview.GeneratedQuestion, error)
	PolishResume(ctx context.Context, resume json.RawMessage) (*ai.PolishResult, error)
	Feedback(ctx context.Context, resume json.RawMessage) (string, error)
}

// JobFetcher downloads a job posting and extracts its description.
type JobFetcher interface {
	JobDescription(ctx context.Context, rawURL string) (*fetch.Page, error)
}

// Config holds server configuration
type Config struct {
	Port        int
	AllowOrigin string
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Store     Store
	AI        AIService
	Sessions  *mockinterview.Manager
	Fetcher   JobFetcher
	JWT       *JWTService
	Passwords *config.PasswordConfig
	Limiter   *ratelimit.Limiter
	Log       *logger.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       Store
	ai          AIService
	sessions    *mockinterview.Manager
	fetcher     JobFetcher
	jwt         *JWTService
	authHandler *AuthHandler
	rateLimiter *ratelimit.Limiter
	log         *logger.Logger
	allowOrigin string
	now         func() time.Time
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	switch {
	case deps.Store == nil:
		return nil, errors.New("server: store is required")
	case deps.JWT == nil:
		return nil, errors.New("server: JWT service is required")
	case deps.Passwords == nil:
		return nil, errors.New("server: password config is required")
	}

	s := &Server{
		store:       deps.Store,
		ai:          deps.AI,
		sessions:    deps.Sessions,
		fetcher:     deps.Fetcher,
		jwt:         deps.JWT,
		rateLimiter: deps.Limiter,
		log:         deps.Log,
		allowOrigin: cfg.AllowOrigin,
		now:         deps.Now,
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.allowOrigin == "" {
		s.allowOrigin = "*"
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	}
	s.authHandler = NewAuthHandler(NewUserService(deps.Store, deps.Passwords), deps.JWT, s.log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("/api/", middleware.Auth(s.jwt.AsTokenValidator())(s.apiRoutes()))

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // question generation runs several model calls
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func (s *Server) apiRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("PUT /api/auth/password", s.handleUpdatePassword)

	mux.HandleFunc("POST /api/applications", s.handleCreateApplication)
	mux.HandleFunc("GET /api/applications", s.handleListApplications)
	mux.HandleFunc("GET /api/applications/{id}", s.handleGetApplication)
	mux.HandleFunc("PUT /api/applications/{id}", s.handleUpdateApplication)
	mux.HandleFunc("DELETE /api/applications/{id}", s.handleDeleteApplication)
	mux.HandleFunc("GET /api/applications/{id}/job-description", s.handleGetJobDescription)
	mux.HandleFunc("POST /api/applications/{id}/job-description/fetch", s.handleFetchJobDescription)

	mux.HandleFunc("POST /api/interview-entries", s.handleCreateInterviewEntry)
	mux.HandleFunc("GET /api/interview-entries/{id}", s.handleGetInterviewEntry)
	mux.HandleFunc("PATCH /api/interview-entries/{id}", s.handlePatchInterviewEntry)
	mux.HandleFunc("DELETE /api/interview-entries/{id}", s.handleDeleteInterviewEntry)
	mux.HandleFunc("GET /api/journal-entries", s.handleJournal)

	mux.HandleFunc("POST /api/resumes", s.handleCreateResume)
	mux.HandleFunc("GET /api/resumes", s.handleListResumes)
	mux.HandleFunc("GET /api/resumes/latest", s.handleLatestResume)
	mux.HandleFunc("GET /api/resumes/{id}", s.handleGetResume)
	mux.HandleFunc("PATCH /api/resumes/{id}", s.handlePatchResume)
	mux.HandleFunc("DELETE /api/resumes/{id}", s.handleDeleteResume)
	mux.HandleFunc("GET /api/resumes/by-tag/{tag}", s.handleGetResumeByTag)
	mux.HandleFunc("PATCH /api/resumes/by-tag/{tag}", s.handlePatchResumeByTag)
	mux.HandleFunc("DELETE /api/resumes/by-tag/{tag}", s.handleDeleteResumeByTag)
	mux.HandleFunc("GET /api/resumes/by-tag/{tag}/{section}", s.handleResumeSection)

	mux.HandleFunc("GET /api/profile", s.handleGetProfile)
	mux.HandleFunc("PUT /api/profile", s.handlePutProfile)

	mux.HandleFunc("GET /api/dashboard/stats", s.handleDashboardStats)

	mux.HandleFunc("POST /api/interview-history", s.handleSaveHistory)
	mux.HandleFunc("GET /api/interview-history", s.handleListHistory)
	mux.HandleFunc("DELETE /api/interview-history/{id}", s.handleDeleteHistory)

	mux.HandleFunc("POST /api/ai/polish", s.handlePolish)
	mux.HandleFunc("POST /api/ai/feedback", s.handleFeedback)
	mux.HandleFunc("POST /api/ai/questions", s.handleGenerateQuestion)
	mux.HandleFunc("POST /api/ai/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/ai/solution", s.handleSolution)
	mux.HandleFunc("POST /api/ai/similar-question", s.handleSimilarQuestion)

	mux.HandleFunc("POST /api/mock-sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/mock-sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/mock-sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("PUT /api/mock-sessions/{id}/categories/{category}", s.handleSelectCategory)
	mux.HandleFunc("POST /api/mock-sessions/{id}/categories/{category}/finish", s.handleFinishCategory)
	mux.HandleFunc("POST /api/mock-sessions/{id}/generate", s.handleGenerate)
	mux.HandleFunc("POST /api/mock-sessions/{id}/generate/stream", s.handleGenerateStream)
	mux.HandleFunc("PUT /api/mock-sessions/{id}/questions/{qid}", s.handleUpdateQuestion)
	mux.HandleFunc("POST /api/mock-sessions/{id}/questions/{qid}/{action}", s.handleQuestionAction)

	return mux
}

// Handler returns the full middleware-wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.rateLimiter.Stop()
	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps event streams working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// handleHealth reports liveness and database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		s.log.Warn("health check failed", "error", err)
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpdatePassword changes the caller's password.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to its status. Internal errors are logged and hidden.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.errorResponse(w, status, "Internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// decode reads a JSON body into v and validates it when validate is set.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any, validate bool) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if validate {
		if err := types.Validate(v); err != nil {
			s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
			return false
		}
	}
	return true
}

// requireUser reads the authenticated user placed by middleware.Auth.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := middleware.UserID(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses a UUID path parameter.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// extractValidationErrors formats the first validation failure.
func extractValidationErrors(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return (&ErrValidation{Field: verrs[0].Field(), Message: verrs[0].Tag()}).Error()
	}
	return "validation error: invalid request"
}

// extractClientID uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds())
		response["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	s.log.Warn("rate limit exceeded",
		"path", r.URL.Path,
		"limit", info.Limit,
		"reset", info.ResetTime.Format(time.RFC3339),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
