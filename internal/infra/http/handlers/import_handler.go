package handlers

import (
	"errors"
	"net/http"

	"github.com/xavierca1/buyerleads/internal/infra/http/middleware"
	"github.com/xavierca1/buyerleads/internal/usecase"
	"go.uber.org/zap"
)

const DefaultMaxUploadBytes = 5 << 20

type ImportHandler struct {
	ImportUC *usecase.ImportBuyersUseCase
	MaxBytes int64
	Logger   *zap.Logger
}

func NewImportHandler(uc *usecase.ImportBuyersUseCase, maxBytes int64, logger *zap.Logger) *ImportHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &ImportHandler{ImportUC: uc, MaxBytes: maxBytes, Logger: logger}
}

// Import (POST /api/buyers/import), multipart field "file".
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "File too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No file uploaded"})
		return
	}
	defer file.Close()

	report, err := h.ImportUC.Execute(r.Context(), file, identity)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	middleware.RecordImport(report.Imported, len(report.Errors))
	writeJSON(w, http.StatusOK, report)
}
