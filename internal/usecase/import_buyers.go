package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/buyerleads/internal/entity"
	"go.uber.org/zap"
)

const DefaultMaxImportRows = 5000

type ImportBuyersUseCase struct {
	Store     Store
	Validator *Validator
	Events    BuyerEventPublisher
	Notifier  ImportNotifier
	Logger    *zap.Logger
	Now       Clock
	MaxRows   int

	// Async runs the post-import notification. Defaults to a new goroutine.
	Async func(func())
}

func NewImportBuyersUseCase(store Store, events BuyerEventPublisher, notifier ImportNotifier, logger *zap.Logger, maxRows int) *ImportBuyersUseCase {
	if maxRows <= 0 {
		maxRows = DefaultMaxImportRows
	}
	return &ImportBuyersUseCase{
		Store:     store,
		Validator: NewImportValidator(),
		Events:    events,
		Notifier:  notifier,
		Logger:    orNop(logger),
		Now:       time.Now,
		MaxRows:   maxRows,
		Async:     func(f func()) { go f() },
	}
}

// Execute validates every row and writes the valid ones in a single batch.
// Imported rows get no history entry; only single-record create and update
// feed the ledger.
func (uc *ImportBuyersUseCase) Execute(ctx context.Context, r io.Reader, uploader entity.Identity) (*ImportReport, error) {
	rows, err := uc.parse(r)
	if err != nil {
		return nil, err
	}

	now := uc.Now().UTC().Truncate(time.Microsecond)
	report := &ImportReport{Total: len(rows), Errors: []ImportRowError{}}
	valid := make([]*entity.BuyerLead, 0, len(rows))

	for i, row := range rows {
		result := uc.Validator.Validate(BuyerInputFromRow(row))
		if !result.OK() {
			msgs := make([]string, 0, len(result.Errors))
			for _, e := range result.Errors {
				msgs = append(msgs, e.Error())
			}
			report.Errors = append(report.Errors, ImportRowError{Row: i + 1, Errors: msgs})
			continue
		}
		// No authenticated owner exists per row, so each gets its own surrogate.
		valid = append(valid, entity.NewBuyerLead(uuid.New().String(), *result.Payload, uuid.New().String(), now))
	}

	if len(valid) > 0 {
		tx := NewTransaction(uc.Store)
		tx.AddOperation("insert_batch", func(ctx context.Context, tx Tx) error {
			return tx.Buyers().CreateBatch(ctx, valid)
		})
		if err := tx.Execute(ctx); err != nil {
			uc.Logger.Error("import batch failed", zap.Int("rows", len(valid)), zap.Error(err))
			return nil, internal("failed to import buyers", err)
		}
		report.Imported = len(valid)
	}

	uc.Logger.Info("import finished",
		zap.String("uploader_id", uploader.ID),
		zap.Int("total", report.Total),
		zap.Int("imported", report.Imported),
		zap.Int("failed", len(report.Errors)),
	)

	if report.Imported > 0 {
		publishEvent(ctx, uc.Events, uc.Logger, entity.BuyerEvent{
			Type:       entity.EventBuyersImported,
			OwnerID:    uploader.ID,
			Count:      report.Imported,
			OccurredAt: now,
		})
	}
	uc.notify(uploader, *report)

	return report, nil
}

func (uc *ImportBuyersUseCase) notify(uploader entity.Identity, report ImportReport) {
	if uc.Notifier == nil || uploader.Email == "" {
		return
	}
	uc.Async(func() {
		if err := uc.Notifier.SendImportSummary(uploader.Email, report.Imported, report.Total, len(report.Errors)); err != nil {
			uc.Logger.Warn("failed to send import summary", zap.String("to", uploader.Email), zap.Error(err))
		}
	})
}

// parse reads the whole file up front: a structural error anywhere rejects
// the import before any row is validated.
func (uc *ImportBuyersUseCase) parse(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, badFormat(fmt.Sprintf("Invalid CSV format: line %d: %v", perr.Line, perr.Err))
		}
		return nil, badFormat("Invalid CSV format")
	}
	if len(records) == 0 {
		return []map[string]string{}, nil
	}

	header := records[0]
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = strings.TrimSpace(h)
	}

	data := records[1:]
	if len(data) > uc.MaxRows {
		return nil, badFormat(fmt.Sprintf("Too many rows: %d (max %d)", len(data), uc.MaxRows))
	}

	rows := make([]map[string]string, 0, len(data))
	for _, record := range data {
		row := make(map[string]string, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
