package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/buyerleads/internal/infra/http/handlers"
	"github.com/xavierca1/buyerleads/internal/infra/http/middleware"
	"github.com/xavierca1/buyerleads/internal/infra/memory"
	"github.com/xavierca1/buyerleads/internal/infra/ratelimit"
	"github.com/xavierca1/buyerleads/internal/usecase"
	"go.uber.org/zap"
)

const secret = "router-test-secret"

func newTestRouter(t *testing.T, importLimit int) (http.Handler, string) {
	t.Helper()
	store := memory.NewStore()
	logger := zap.NewNop()

	importUC := usecase.NewImportBuyersUseCase(store, nil, nil, logger, 0)
	importUC.Async = func(f func()) { f() }

	h := New(Deps{
		Buyers: handlers.NewBuyerHandler(
			usecase.NewCreateBuyerUseCase(store, nil, logger),
			usecase.NewUpdateBuyerUseCase(store, nil, logger),
			usecase.NewGetBuyerUseCase(store),
			usecase.NewListBuyersUseCase(store),
			logger,
		),
		Import:         handlers.NewImportHandler(importUC, 0, logger),
		Export:         handlers.NewExportHandler(usecase.NewExportBuyersUseCase(store), logger),
		Health:         handlers.NewHealthHandler(nil, nil, nil, "test"),
		Auth:           middleware.NewAuthenticator(secret, logger),
		ImportLimiter:  ratelimit.NewMemoryLimiter(importLimit, time.Minute, 0),
		AllowedOrigins: []string{"*"},
		Logger:         logger,
	})

	token, err := middleware.IssueToken(secret, uuid.New().String(), "", time.Hour)
	require.NoError(t, err)
	return h, token
}

func uploadRequest(t *testing.T, token, csv string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "buyers.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/buyers/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestRouter_HealthIsPublic(t *testing.T) {
	h, _ := newTestRouter(t, 30)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_BuyerRoutesRequireAuth(t *testing.T) {
	h, _ := newTestRouter(t, 30)
	for _, target := range []string{"/api/buyers", "/api/buyers/export", "/api/buyers/" + uuid.New().String()} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/buyers", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ImportThenExport(t *testing.T) {
	h, token := newTestRouter(t, 30)

	csv := "fullName,phone,city,propertyType,bhk,purpose,budgetMin,budgetMax,timeline,source,tags\n" +
		"Asha Verma,9812345678,Chandigarh,Apartment,2,Buy,5000000,7000000,0-3m,Website,\"loan,vip\"\n" +
		"Bad Row,123,Chandigarh,Apartment,,Buy,,,0-3m,Website,\n"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, token, csv))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report usecase.ImportReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 2, report.Total)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 2, report.Errors[0].Row)

	req := httptest.NewRequest(http.MethodGet, "/api/buyers/export?city=Chandigarh", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="buyers.csv"`, rec.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSuffix(rec.Body.String(), "\r\n"), "\r\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], `"id","fullName","email","phone"`))
	assert.Contains(t, lines[1], `"Asha Verma"`)
	assert.Contains(t, lines[1], `"loan,vip"`)
}

func TestRouter_ImportWithoutFile(t *testing.T) {
	h, token := newTestRouter(t, 30)
	req := httptest.NewRequest(http.MethodPost, "/api/buyers/import", strings.NewReader(""))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"No file uploaded"}`, rec.Body.String())
}

func TestRouter_ImportIsRateLimited(t *testing.T) {
	h, token := newTestRouter(t, 1)
	csv := "fullName,phone\n"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, token, csv))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, token, csv))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Other routes are not limited.
	req := httptest.NewRequest(http.MethodGet, "/api/buyers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
