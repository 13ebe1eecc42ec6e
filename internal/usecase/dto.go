package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xavierca1/buyerleads/internal/entity"
)

// BuyerInput is the loosely-typed payload as it arrives from a form, a JSON
// body or a CSV row. Nothing here is trusted until it passes the validator.
type BuyerInput struct {
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	City         string     `json:"city"`
	PropertyType string     `json:"propertyType"`
	BHK          string     `json:"bhk"`
	Purpose      string     `json:"purpose"`
	BudgetMin    FlexString `json:"budgetMin"`
	BudgetMax    FlexString `json:"budgetMax"`
	Timeline     string     `json:"timeline"`
	Source       string     `json:"source"`
	Notes        string     `json:"notes"`
	Tags         TagList    `json:"tags"`
	Status       string     `json:"status"`

	// UpdatedAt is the version token the client last saw. Only used on update.
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// BuyerInputFromRow maps a CSV record keyed by header name.
func BuyerInputFromRow(row map[string]string) BuyerInput {
	return BuyerInput{
		FullName:     row["fullName"],
		Email:        row["email"],
		Phone:        row["phone"],
		City:         row["city"],
		PropertyType: row["propertyType"],
		BHK:          row["bhk"],
		Purpose:      row["purpose"],
		BudgetMin:    FlexString(row["budgetMin"]),
		BudgetMax:    FlexString(row["budgetMax"]),
		Timeline:     row["timeline"],
		Source:       row["source"],
		Notes:        row["notes"],
		Tags:         SplitTags(row["tags"]),
		Status:       row["status"],
	}
}

// FlexString accepts a JSON string, number or null.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = FlexString(n.String())
	return nil
}

// TagList accepts either a comma-delimited string or an array of strings.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = SplitTags(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("tags must be a string or a list of strings")
	}
	*t = list
	return nil
}

func SplitTags(s string) TagList {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return TagList(strings.Split(s, ","))
}

type BuyerOutput struct {
	Success bool              `json:"success"`
	Buyer   *entity.BuyerLead `json:"buyer"`
}

type BuyerDetail struct {
	Buyer   *entity.BuyerLead      `json:"buyer"`
	History []*entity.HistoryEntry `json:"history"`
}

// ImportReport is the stable response contract of a CSV import.
type ImportReport struct {
	Imported int              `json:"imported"`
	Total    int              `json:"total"`
	Errors   []ImportRowError `json:"errors"`
}

type ImportRowError struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}
