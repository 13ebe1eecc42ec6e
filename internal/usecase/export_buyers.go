package usecase

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/buyerleads/internal/entity"
	"github.com/xuri/excelize/v2"
)

const MaxExportRows = 1000

var ExportColumns = []string{
	"id", "fullName", "email", "phone", "city", "propertyType", "bhk", "purpose",
	"budgetMin", "budgetMax", "timeline", "source", "notes", "tags", "status",
	"ownerId", "updatedAt",
}

type ExportBuyersUseCase struct {
	Store Reader
}

func NewExportBuyersUseCase(store Reader) *ExportBuyersUseCase {
	return &ExportBuyersUseCase{Store: store}
}

// Execute loads at most MaxExportRows leads matching filter, newest first.
func (uc *ExportBuyersUseCase) Execute(ctx context.Context, filter entity.BuyerFilter) ([]*entity.BuyerLead, error) {
	buyers, err := uc.Store.Buyers().List(ctx, filter, MaxExportRows, 0)
	if err != nil {
		return nil, internal("failed to export buyers", err)
	}
	return buyers, nil
}

func exportRecord(b *entity.BuyerLead) []string {
	return []string{
		b.ID,
		b.FullName,
		b.Email,
		b.Phone,
		string(b.City),
		string(b.PropertyType),
		string(b.BHK),
		string(b.Purpose),
		formatBudget(b.BudgetMin),
		formatBudget(b.BudgetMax),
		string(b.Timeline),
		string(b.Source),
		b.Notes,
		strings.Join(b.Tags, ","),
		string(b.Status),
		b.OwnerID,
		b.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func formatBudget(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// WriteCSV renders buyers with every cell quoted and CRLF line endings.
// encoding/csv only quotes when it has to, so records are written by hand.
func WriteCSV(w io.Writer, buyers []*entity.BuyerLead) error {
	bw := bufio.NewWriter(w)
	if err := writeQuotedLine(bw, ExportColumns); err != nil {
		return err
	}
	for _, b := range buyers {
		if err := writeQuotedLine(bw, exportRecord(b)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeQuotedLine(w *bufio.Writer, cells []string) error {
	for i, cell := range cells {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(`"` + strings.ReplaceAll(cell, `"`, `""`) + `"`); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\r\n")
	return err
}

// WriteXLSX renders the same table as WriteCSV into a single-sheet workbook
// with a frozen, bold header row.
func WriteXLSX(w io.Writer, buyers []*entity.BuyerLead) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Buyers"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := setRow(f, sheet, 1, ExportColumns); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(ExportColumns), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for i, b := range buyers {
		if err := setRow(f, sheet, i+2, exportRecord(b)); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	for col, v := range values {
		if v == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return nil
}
