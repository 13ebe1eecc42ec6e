package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/xavierca1/buyerleads/internal/entity"
)

const buyerColumns = `id, full_name, email, phone, city, property_type, bhk, purpose,
	budget_min, budget_max, timeline, source, notes, tags, status, owner_id, updated_at`

const buyerColumnCount = 17

// Keeps a batch well under the 65535 bind parameter limit.
const batchChunkSize = 500

type BuyerRepository struct {
	DB querier
}

func NewBuyerRepository(db querier) *BuyerRepository {
	return &BuyerRepository{DB: db}
}

func buyerArgs(b *entity.BuyerLead) []any {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	return []any{
		b.ID,
		b.FullName,
		nullString(b.Email),
		b.Phone,
		string(b.City),
		string(b.PropertyType),
		nullString(string(b.BHK)),
		string(b.Purpose),
		nullInt(b.BudgetMin),
		nullInt(b.BudgetMax),
		string(b.Timeline),
		string(b.Source),
		nullString(b.Notes),
		pq.Array(tags),
		string(b.Status),
		b.OwnerID,
		b.UpdatedAt,
	}
}

func placeholders(row, cols int) string {
	parts := make([]string, cols)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", row*cols+i+1)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (r *BuyerRepository) Create(ctx context.Context, b *entity.BuyerLead) error {
	query := `INSERT INTO buyers (` + buyerColumns + `) VALUES ` + placeholders(0, buyerColumnCount)
	if _, err := r.DB.ExecContext(ctx, query, buyerArgs(b)...); err != nil {
		return mapWriteError("insert buyer", err)
	}
	return nil
}

// CreateBatch inserts buyers with multi-row statements. Callers run it inside
// a transaction so a failing chunk discards the earlier ones.
func (r *BuyerRepository) CreateBatch(ctx context.Context, buyers []*entity.BuyerLead) error {
	for start := 0; start < len(buyers); start += batchChunkSize {
		end := start + batchChunkSize
		if end > len(buyers) {
			end = len(buyers)
		}
		chunk := buyers[start:end]

		values := make([]string, len(chunk))
		args := make([]any, 0, len(chunk)*buyerColumnCount)
		for i, b := range chunk {
			values[i] = placeholders(i, buyerColumnCount)
			args = append(args, buyerArgs(b)...)
		}

		query := `INSERT INTO buyers (` + buyerColumns + `) VALUES ` + strings.Join(values, ", ")
		if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
			return mapWriteError(fmt.Sprintf("insert buyers %d-%d", start+1, end), err)
		}
	}
	return nil
}

func (r *BuyerRepository) FindByID(ctx context.Context, id string) (*entity.BuyerLead, error) {
	return r.findOne(ctx, `SELECT `+buyerColumns+` FROM buyers WHERE id = $1`, id)
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (r *BuyerRepository) FindByIDForUpdate(ctx context.Context, id string) (*entity.BuyerLead, error) {
	return r.findOne(ctx, `SELECT `+buyerColumns+` FROM buyers WHERE id = $1 FOR UPDATE`, id)
}

func (r *BuyerRepository) findOne(ctx context.Context, query, id string) (*entity.BuyerLead, error) {
	// ids are uuid columns; anything else cannot exist.
	if _, err := uuid.Parse(id); err != nil {
		return nil, entity.ErrBuyerNotFound
	}

	b, err := scanBuyer(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrBuyerNotFound
		}
		return nil, fmt.Errorf("select buyer: %w", err)
	}
	return b, nil
}

// Update writes b only if the stored version still equals expected.
func (r *BuyerRepository) Update(ctx context.Context, b *entity.BuyerLead, expected time.Time) error {
	query := `
		UPDATE buyers SET
			full_name = $2, email = $3, phone = $4, city = $5, property_type = $6,
			bhk = $7, purpose = $8, budget_min = $9, budget_max = $10, timeline = $11,
			source = $12, notes = $13, tags = $14, status = $15, updated_at = $16
		WHERE id = $1 AND updated_at = $17
	`
	cols := buyerArgs(b)
	args := append(cols[:15:15], b.UpdatedAt, expected)
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError("update buyer", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update buyer: %w", err)
	}
	if n == 0 {
		return entity.ErrVersionConflict
	}
	return nil
}

func (r *BuyerRepository) List(ctx context.Context, filter entity.BuyerFilter, limit, offset int) ([]*entity.BuyerLead, error) {
	where, args := buildBuyerWhere(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM buyers%s ORDER BY updated_at DESC, id LIMIT $%d OFFSET $%d`,
		buyerColumns, where, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list buyers: %w", err)
	}
	defer rows.Close()

	buyers := []*entity.BuyerLead{}
	for rows.Next() {
		b, err := scanBuyer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan buyer: %w", err)
		}
		buyers = append(buyers, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list buyers: %w", err)
	}
	return buyers, nil
}

func (r *BuyerRepository) Count(ctx context.Context, filter entity.BuyerFilter) (int, error) {
	where, args := buildBuyerWhere(filter)
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM buyers`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count buyers: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuyer(row rowScanner) (*entity.BuyerLead, error) {
	var (
		b                    entity.BuyerLead
		email, bhk, notes    sql.NullString
		budgetMin, budgetMax sql.NullInt64
		city, propertyType   string
		purpose, timeline    string
		source, status       string
		tags                 []string
	)
	err := row.Scan(
		&b.ID, &b.FullName, &email, &b.Phone, &city, &propertyType, &bhk, &purpose,
		&budgetMin, &budgetMax, &timeline, &source, &notes, pq.Array(&tags), &status,
		&b.OwnerID, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Email = email.String
	b.City = entity.City(city)
	b.PropertyType = entity.PropertyType(propertyType)
	b.BHK = entity.BHK(bhk.String)
	b.Purpose = entity.Purpose(purpose)
	b.BudgetMin = intPtr(budgetMin)
	b.BudgetMax = intPtr(budgetMax)
	b.Timeline = entity.Timeline(timeline)
	b.Source = entity.Source(source)
	b.Notes = notes.String
	b.Status = entity.Status(status)
	b.UpdatedAt = b.UpdatedAt.UTC()
	if tags == nil {
		tags = []string{}
	}
	b.Tags = tags
	return &b, nil
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func mapWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%s: %w", op, entity.ErrDuplicateBuyer)
	}
	return fmt.Errorf("%s: %w", op, err)
}
