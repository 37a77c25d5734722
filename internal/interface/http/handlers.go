package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/boostly-hq/boostly/internal/application/command"
	"github.com/boostly-hq/boostly/internal/application/query"
	"github.com/boostly-hq/boostly/internal/domain/shared"
	"github.com/boostly-hq/boostly/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "Boostly API",
		"version":     "v1",
		"description": "REST API for Boostly - peer-to-peer recognition and credit ledger",
		"endpoints": map[string]string{
			"health":       "/health",
			"students":     "/api/v1/students",
			"recognitions": "/api/v1/recognitions",
			"leaderboard":  "/api/v1/leaderboard",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	// Default health response
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// handleMetrics handles the metrics endpoint.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := map[string]interface{}{
		"uptime_seconds": s.Uptime().Seconds(),
		"running":        s.IsRunning(),
	}

	writeJSON(w, http.StatusOK, metrics)
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// registerStudentRequest is the body of POST /api/v1/students.
type registerStudentRequest struct {
	Name string `json:"name"`
}

// handleRegisterStudent handles POST /api/v1/students
func (s *Server) handleRegisterStudent(w http.ResponseWriter, r *http.Request) {
	if s.deps.RegisterStudentHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Student registration not configured")
		return
	}

	var req registerStudentRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.RegisterStudentHandler.Handle(r.Context(), command.RegisterStudentCommand{
		Name:          req.Name,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err, "failed to register student")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// handleGetStudent handles GET /api/v1/students/{id}
func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("id")
	if studentID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Student ID is required")
		return
	}

	if s.deps.GetStudentHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Student handler not configured")
		return
	}

	result, err := s.deps.GetStudentHandler.Handle(r.Context(), query.GetStudentQuery{
		StudentID: studentID,
	})
	if err != nil {
		s.writeDomainError(w, r, err, "failed to get student")
		return
	}

	meta := &ResponseMeta{FromCache: result.FromCache}
	writeJSONWithMeta(w, r, http.StatusOK, result.Student, meta)
}

// redeemCreditsRequest is the body of POST /api/v1/students/{id}/redeem.
type redeemCreditsRequest struct {
	Credits int `json:"credits"`
}

// handleRedeemCredits handles POST /api/v1/students/{id}/redeem
func (s *Server) handleRedeemCredits(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("id")
	if studentID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Student ID is required")
		return
	}

	if s.deps.RedeemCreditsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Redemption not configured")
		return
	}

	var req redeemCreditsRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.RedeemCreditsHandler.Handle(r.Context(), command.RedeemCreditsCommand{
		StudentID:     studentID,
		Credits:       req.Credits,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err, "failed to redeem credits")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// RECOGNITION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// createRecognitionRequest is the body of POST /api/v1/recognitions.
type createRecognitionRequest struct {
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Credits    int    `json:"credits"`
	Message    string `json:"message,omitempty"`
}

// handleCreateRecognition handles POST /api/v1/recognitions
func (s *Server) handleCreateRecognition(w http.ResponseWriter, r *http.Request) {
	if s.deps.CreateRecognitionHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Recognitions not configured")
		return
	}

	var req createRecognitionRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.CreateRecognitionHandler.Handle(r.Context(), command.CreateRecognitionCommand{
		SenderID:      req.SenderID,
		ReceiverID:    req.ReceiverID,
		Credits:       req.Credits,
		Message:       req.Message,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err, "failed to create recognition")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// endorseRecognitionRequest is the body of POST /api/v1/recognitions/{id}/endorse.
type endorseRecognitionRequest struct {
	EndorserID string `json:"endorser_id"`
}

// handleEndorseRecognition handles POST /api/v1/recognitions/{id}/endorse
func (s *Server) handleEndorseRecognition(w http.ResponseWriter, r *http.Request) {
	recognitionID := r.PathValue("id")
	if recognitionID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Recognition ID is required")
		return
	}

	if s.deps.EndorseRecognitionHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Endorsements not configured")
		return
	}

	var req endorseRecognitionRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.EndorseRecognitionHandler.Handle(r.Context(), command.EndorseRecognitionCommand{
		RecognitionID: recognitionID,
		EndorserID:    req.EndorserID,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err, "failed to endorse recognition")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// handleGetLeaderboard handles GET /api/v1/leaderboard
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetLeaderboardHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Leaderboard handler not configured")
		return
	}

	q := query.GetLeaderboardQuery{
		Limit:       getQueryParamInt(r, "limit", 0),
		BypassCache: getQueryParamBool(r, "bypass_cache"),
	}

	result, err := s.deps.GetLeaderboardHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err, "failed to get leaderboard")
		return
	}

	meta := &ResponseMeta{
		TotalCount: result.TotalCount,
		FromCache:  result.FromCache,
	}

	writeJSONWithMeta(w, r, http.StatusOK, result, meta)
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// monthlyResetResponse is the admin-facing summary of a reset sweep.
type monthlyResetResponse struct {
	TotalStudents int               `json:"total_students"`
	ResetCount    int               `json:"reset_count"`
	SkippedCount  int               `json:"skipped_count"`
	FailedCount   int               `json:"failed_count"`
	Errors        map[string]string `json:"errors,omitempty"`
	Duration      string            `json:"duration"`
}

// handleAdminMonthlyReset handles POST /api/v1/admin/monthly-reset
//
// This is the out-of-band trigger for the monthly sweep. Balances are
// never reset lazily on read, so an operator who needs a reset outside
// the schedule calls this endpoint.
func (s *Server) handleAdminMonthlyReset(w http.ResponseWriter, r *http.Request) {
	if s.deps.RunMonthlyResetHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Monthly reset not configured")
		return
	}

	s.logger.Info("admin monthly reset triggered",
		logger.String("ip", getClientIP(r)),
		logger.String("request_id", getRequestID(r.Context())),
	)

	result, err := s.deps.RunMonthlyResetHandler.Handle(r.Context(), command.RunMonthlyResetCommand{
		Now:           time.Now().UTC(),
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err, "monthly reset failed")
		return
	}

	resp := monthlyResetResponse{
		TotalStudents: result.TotalStudents,
		ResetCount:    result.ResetCount,
		SkippedCount:  result.SkippedCount,
		FailedCount:   result.FailedCount,
		Duration:      result.Duration.String(),
	}
	if len(result.Errors) > 0 {
		resp.Errors = make(map[string]string, len(result.Errors))
		for id, resetErr := range result.Errors {
			resp.Errors[id] = resetErr.Error()
		}
	}

	status := http.StatusOK
	if result.FailedCount > 0 {
		// Partial failure: some students were reset, some were not.
		status = http.StatusMultiStatus
	}

	writeJSON(w, status, resp)
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST DECODING & ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// decodeJSON decodes a JSON request body, writing a 400 on failure.
// Returns false if the response has already been written.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, s.config.MaxBodyBytes))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to read request body")
		return false
	}

	if len(body) == 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Request body is required")
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return false
	}

	return true
}

// writeDomainError maps a domain error to an HTTP status and writes it.
//
// Business-rule rejections keep the domain message so the client learns
// what rule was violated. Infrastructure failures are logged with the
// underlying cause but answered with a generic message.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	status, code := mapDomainError(err)

	if status >= http.StatusInternalServerError {
		s.logger.Error(logMsg,
			logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
		)
		writeJSONError(w, status, code, "The operation could not be completed")
		return
	}

	writeJSONError(w, status, code, err.Error())
}

// mapDomainError translates domain errors to HTTP status codes.
// Specific ledger rules are matched before the generic error kinds,
// because they share kinds with plain validation errors.
func mapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, shared.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity, "insufficient_balance"
	case errors.Is(err, shared.ErrMonthlyLimitExceeded):
		return http.StatusUnprocessableEntity, "monthly_limit_exceeded"
	case errors.Is(err, shared.ErrDuplicateEndorsement):
		return http.StatusConflict, "duplicate_endorsement"
	case errors.Is(err, shared.ErrSelfTransfer):
		return http.StatusBadRequest, "self_transfer"
	case shared.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case shared.IsAlreadyExists(err):
		return http.StatusConflict, "already_exists"
	case shared.IsValidation(err):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, shared.ErrTransactionConflict),
		errors.Is(err, shared.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "storage_unavailable"
	case errors.Is(err, shared.ErrTimeout):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
