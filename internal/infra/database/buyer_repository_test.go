package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/buyerleads/internal/entity"
)

var buyerRowColumns = []string{
	"id", "full_name", "email", "phone", "city", "property_type", "bhk", "purpose",
	"budget_min", "budget_max", "timeline", "source", "notes", "tags", "status",
	"owner_id", "updated_at",
}

func setupMockBuyerDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *BuyerRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewBuyerRepository(db)
}

func sampleBuyer(updatedAt time.Time) *entity.BuyerLead {
	low, high := 5000000, 7000000
	return entity.NewBuyerLead(uuid.New().String(), entity.BuyerFields{
		FullName:     "Asha Verma",
		Email:        "asha@example.com",
		Phone:        "9876543210",
		City:         entity.CityMohali,
		PropertyType: entity.PropertyApartment,
		BHK:          entity.BHK3,
		Purpose:      entity.PurposeBuy,
		BudgetMin:    &low,
		BudgetMax:    &high,
		Timeline:     entity.Timeline0to3m,
		Source:       entity.SourceWebsite,
		Tags:         []string{"vip", "hot"},
	}, uuid.New().String(), updatedAt)
}

func TestFindByID_Success(t *testing.T) {
	db, mock, repo := setupMockBuyerDB(t)
	defer db.Close()

	id := uuid.New().String()
	owner := uuid.New().String()
	updatedAt := time.Date(2025, 3, 1, 10, 0, 0, 123456000, time.UTC)

	rows := sqlmock.NewRows(buyerRowColumns).AddRow(
		id, "Asha Verma", nil, "9876543210", "Mohali", "Plot", nil, "Buy",
		int64(100), nil, "3-6m", "Call", "corner plot", "{vip,hot}", "Qualified",
		owner, updatedAt,
	)
	mock.ExpectQuery(`SELECT .+ FROM buyers WHERE id = \$1$`).
		WithArgs(id).
		WillReturnRows(rows)

	b, err := repo.FindByID(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, id, b.ID)
	assert.Equal(t, "", b.Email)
	assert.Equal(t, entity.PropertyPlot, b.PropertyType)
	assert.Equal(t, entity.BHK(""), b.BHK)
	require.NotNil(t, b.BudgetMin)
	assert.Equal(t, 100, *b.BudgetMin)
	assert.Nil(t, b.BudgetMax)
	assert.Equal(t, []string{"vip", "hot"}, b.Tags)
	assert.Equal(t, entity.StatusQualified, b.Status)
	assert.Equal(t, owner, b.OwnerID)
	assert.True(t, updatedAt.Equal(b.UpdatedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_NotFound(t *testing.T) {
	db, mock, repo := setupMockBuyerDB(t)
	defer db.Close()

	id := uuid.New().String()
	mock.ExpectQuery(`SELECT .+ FROM buyers`).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	b, err := repo.FindByID(context.Background(), id)

	assert.Nil(t, b)
	assert.ErrorIs(t, err, entity.ErrBuyerNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_MalformedIDSkipsQuery(t *testing.T) {
	db, mock, repo := setupMockBuyerDB(t)
	defer db.Close()

	b, err := repo.FindByID(context.Background(), "not-a-uuid")

	assert.Nil(t, b)
	assert.ErrorIs(t, err, entity.ErrBuyerNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDForUpdate_LocksRow(t *testing.T) {
	db, mock, repo := setupMockBuyerDB(t)
	defer db.Close()

	b := sampleBuyer(time.Now().UTC())
	rows := sqlmock.NewRows(buyerRowColumns).AddRow(
		b.ID, b.FullName, b.Email, b.Phone, "Mohali", "Apartment", "3", "Buy",
		nil, nil, "0-3m", "Website", nil, "{}", "New", b.OwnerID, b.UpdatedAt,
	)
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(b.ID).WillReturnRows(rows)

	got, err := repo.FindByIDForUpdate(context.Background(), b.ID)

	require.NoError(t, err)
	assert.Equal(t, entity.BHK3, got.BHK)
	assert.Equal(t, []string{}, got.Tags)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Success(t *testing.T) {
	db, mock, repo := setupMockBuyerDB(t)
	defer db.Close()

	b := sampleBuyer(time.Now().UTC())
	mock.ExpectExec(`INSERT INTO buyers`).
		WithArgs(
			b.ID, b.FullName, b.Email, b.Phone, "Mohali", "Apartment", "3", "Buy",
			int64(5000000), int64(7000000), "0-3m", "Website", nil, sqlmock.AnyArg(), "New",
			b.OwnerID, sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), b))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateKey(t *testing.T) {
	db, mock, repo := setupMockBuyerDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO buyers`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), sampleBuyer(time.Now()))

	assert.ErrorIs(t, err, entity.ErrDuplicateBuyer)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatch_SplitsIntoChunks(t *testing.T) {
	db, mock, repo := setupMockBuyerDB(t)
	defer db.Close()

	now := time.Now().UTC()
	buyers := make([]*entity.BuyerLead, batchChunkSize+1)
	for i := range buyers {
		buyers[i] = sampleBuyer(now)
	}

	mock.ExpectExec(`INSERT INTO buyers`).WillReturnResult(sqlmock.NewResult(0, batchChunkSize))
	mock.ExpectExec(`INSERT INTO buyers .+ VALUES \(\$1, .+\$17\)$`).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateBatch(context.Background(), buyers))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatch_StopsAtFirstFailingChunk(t *testing.T) {
	db, mock, repo := setupMockBuyerDB(t)
	defer db.Close()

	now := time.Now().UTC()
	buyers := make([]*entity.BuyerLead, batchChunkSize+1)
	for i := range buyers {
		buyers[i] = sampleBuyer(now)
	}

	mock.ExpectExec(`INSERT INTO buyers`).WillReturnError(errors.New("disk full"))

	err := repo.CreateBatch(context.Background(), buyers)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_Success(t *testing.T) {
	db, mock, repo := setupMockBuyerDB(t)
	defer db.Close()

	prev := time.Now().UTC().Truncate(time.Microsecond)
	b := sampleBuyer(prev.Add(time.Second))

	mock.ExpectExec(`UPDATE buyers SET .+ WHERE id = \$1 AND updated_at = \$17`).
		WithArgs(
			b.ID, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			b.UpdatedAt, prev,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), b, prev))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_StaleVersion(t *testing.T) {
	db, mock, repo := setupMockBuyerDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE buyers`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), sampleBuyer(time.Now()), time.Now().Add(-time.Hour))

	assert.ErrorIs(t, err, entity.ErrVersionConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_AppliesFilterAndPaging(t *testing.T) {
	db, mock, repo := setupMockBuyerDB(t)
	defer db.Close()

	b := sampleBuyer(time.Now().UTC())
	rows := sqlmock.NewRows(buyerRowColumns).AddRow(
		b.ID, b.FullName, b.Email, b.Phone, "Mohali", "Apartment", "3", "Buy",
		int64(5000000), int64(7000000), "0-3m", "Website", nil, "{vip,hot}", "New", b.OwnerID, b.UpdatedAt,
	)
	mock.ExpectQuery(`SELECT .+ FROM buyers WHERE city::text = \$1 ORDER BY updated_at DESC, id LIMIT \$2 OFFSET \$3`).
		WithArgs("Mohali", 10, 20).
		WillReturnRows(rows)

	buyers, err := repo.List(context.Background(), entity.BuyerFilter{City: "Mohali"}, 10, 20)

	require.NoError(t, err)
	require.Len(t, buyers, 1)
	assert.Equal(t, b.ID, buyers[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCount(t *testing.T) {
	db, mock, repo := setupMockBuyerDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM buyers WHERE \(full_name ILIKE \$1`).
		WithArgs("%asha%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	n, err := repo.Count(context.Background(), entity.BuyerFilter{Query: "asha"})

	require.NoError(t, err)
	assert.Equal(t, 42, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
