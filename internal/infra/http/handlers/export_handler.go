package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/xavierca1/buyerleads/internal/entity"
	"github.com/xavierca1/buyerleads/internal/usecase"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	ExportUC *usecase.ExportBuyersUseCase
	Logger   *zap.Logger
}

func NewExportHandler(uc *usecase.ExportBuyersUseCase, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{ExportUC: uc, Logger: logger}
}

// CSV (GET /api/buyers/export) honours the same filters as the list view.
func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "text/csv; charset=utf-8", "buyers.csv", usecase.WriteCSV)
}

// XLSX (GET /api/buyers/export.xlsx)
func (h *ExportHandler) XLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, xlsxContentType, "buyers.xlsx", usecase.WriteXLSX)
}

func (h *ExportHandler) export(
	w http.ResponseWriter,
	r *http.Request,
	contentType, filename string,
	render func(w io.Writer, buyers []*entity.BuyerLead) error,
) {
	buyers, err := h.ExportUC.Execute(r.Context(), entity.FilterFromValues(r.URL.Query()))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	// Render fully before writing headers so a failure can still be a 500.
	var buf bytes.Buffer
	if err := render(&buf, buyers); err != nil {
		writeError(w, h.Logger, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
