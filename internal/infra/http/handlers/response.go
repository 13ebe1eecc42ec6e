package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/buyerleads/internal/usecase"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error any `json:"error"`
}

type validationBody struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func statusFor(code string) int {
	switch code {
	case usecase.CodeValidation, usecase.CodeBadFormat:
		return http.StatusBadRequest
	case usecase.CodeUnauthorized:
		return http.StatusUnauthorized
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a use-case error onto the response contract. Internal
// failures carry only the operation summary; the cause is logged.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		if de.Code == usecase.CodeValidation {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationBody{
				FormErrors:  []string{},
				FieldErrors: usecase.FieldErrors(de.Fields),
			}})
			return
		}
		writeJSON(w, statusFor(de.Code), errorResponse{Error: de.Message})
		return
	}

	logger.Error("request failed", zap.Error(err))
	msg := "Internal server error"
	var te *usecase.TechnicalError
	if errors.As(err, &te) && te.Summary != "" {
		msg = te.Summary
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msg})
}
