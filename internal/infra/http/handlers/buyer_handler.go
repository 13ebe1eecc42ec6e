package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/buyerleads/internal/entity"
	"github.com/xavierca1/buyerleads/internal/infra/http/middleware"
	"github.com/xavierca1/buyerleads/internal/usecase"
	"go.uber.org/zap"
)

const maxJSONBodyBytes = 64 << 10

type BuyerHandler struct {
	CreateUC *usecase.CreateBuyerUseCase
	UpdateUC *usecase.UpdateBuyerUseCase
	GetUC    *usecase.GetBuyerUseCase
	ListUC   *usecase.ListBuyersUseCase
	Logger   *zap.Logger
}

func NewBuyerHandler(
	create *usecase.CreateBuyerUseCase,
	update *usecase.UpdateBuyerUseCase,
	get *usecase.GetBuyerUseCase,
	list *usecase.ListBuyersUseCase,
	logger *zap.Logger,
) *BuyerHandler {
	return &BuyerHandler{
		CreateUC: create,
		UpdateUC: update,
		GetUC:    get,
		ListUC:   list,
		Logger:   logger,
	}
}

// Create (POST /api/buyers)
func (h *BuyerHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())

	var input usecase.BuyerInput
	if !decodeBody(w, r, &input) {
		return
	}

	buyer, err := h.CreateUC.Execute(r.Context(), input, identity.ID)
	if err != nil {
		middleware.RecordBuyerMutation("create", usecase.ErrorCode(err))
		writeError(w, h.Logger, err)
		return
	}
	middleware.RecordBuyerMutation("create", "ok")
	writeJSON(w, http.StatusCreated, usecase.BuyerOutput{Success: true, Buyer: buyer})
}

// Get (GET /api/buyers/{id})
func (h *BuyerHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.GetUC.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// List (GET /api/buyers?page=&city=&propertyType=&status=&timeline=&q=)
func (h *BuyerHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))

	result, err := h.ListUC.Execute(r.Context(), entity.FilterFromValues(query), page)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Update (PUT /api/buyers/{id})
func (h *BuyerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.BuyerInput
	if !decodeBody(w, r, &input) {
		return
	}

	expected, err := usecase.ParseVersion(input.UpdatedAt)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	buyer, err := h.UpdateUC.Execute(r.Context(), chi.URLParam(r, "id"), input, expected)
	if err != nil {
		middleware.RecordBuyerMutation("update", usecase.ErrorCode(err))
		writeError(w, h.Logger, err)
		return
	}
	middleware.RecordBuyerMutation("update", "ok")
	writeJSON(w, http.StatusOK, usecase.BuyerOutput{Success: true, Buyer: buyer})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "Request body too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON"})
		return false
	}
	return true
}
