package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"locatrajes/internal/dto"
	apperrors "locatrajes/internal/errors"
)

// responder holds the JSON and error plumbing shared by every controller.
type responder struct {
	logger *zap.Logger
}

func (c responder) begin(op string) (string, *zap.Logger) {
	traceID := uuid.New().String()
	return traceID, c.logger.With(zap.String("traceId", traceID), zap.String("operation", op))
}

// decode reads the JSON body into v, answering 400 itself on failure.
func (c responder) decode(w http.ResponseWriter, r *http.Request, traceID string, v interface{}, logger *zap.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return false
	}
	return true
}

func (c responder) handleUseCaseError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
		return
	}

	if ce, ok := apperrors.IsConflictError(err); ok {
		logger.Info("request rejected by conflict", zap.String("code", ce.Code), zap.Strings("ids", ce.IDs))
		c.writeErrorResponse(w, traceID, http.StatusConflict, ce.Code, ce.Message, ce.IDs)
		return
	}

	if pe, ok := apperrors.IsPreconditionError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusUnprocessableEntity, pe.Code, pe.Message, nil)
		return
	}

	if _, ok := apperrors.IsForbiddenError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "DEADLOCK", err.Error(), nil)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", nil)
}

func (c responder) writeErrorResponse(w http.ResponseWriter, traceID string, statusCode int, code, message string, ids []string) {
	c.writeJSON(w, statusCode, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    statusCode,
		Code:      code,
		Message:   message,
		IDs:       ids,
		Timestamp: time.Now().UTC(),
	})
}

func (c responder) writeValidationError(w http.ResponseWriter, traceID string, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    http.StatusBadRequest,
		Code:      "VALIDATION_ERROR",
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}

func (c responder) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
