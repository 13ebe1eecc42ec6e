package entity

import (
	"net/url"
	"strings"
)

// BuyerFilter holds the optional listing/export criteria. Empty fields are
// ignored; the remaining conditions are combined with AND.
type BuyerFilter struct {
	City         string
	PropertyType string
	Status       string
	Timeline     string
	Query        string
}

func FilterFromValues(v url.Values) BuyerFilter {
	return BuyerFilter{
		City:         strings.TrimSpace(v.Get("city")),
		PropertyType: strings.TrimSpace(v.Get("propertyType")),
		Status:       strings.TrimSpace(v.Get("status")),
		Timeline:     strings.TrimSpace(v.Get("timeline")),
		Query:        strings.TrimSpace(v.Get("q")),
	}
}

func (f BuyerFilter) IsEmpty() bool {
	return f == BuyerFilter{}
}

// Match is the in-memory form of the predicate. The SQL form lives in the
// database package and must stay equivalent.
func (f BuyerFilter) Match(b *BuyerLead) bool {
	if f.City != "" && string(b.City) != f.City {
		return false
	}
	if f.PropertyType != "" && string(b.PropertyType) != f.PropertyType {
		return false
	}
	if f.Status != "" && string(b.Status) != f.Status {
		return false
	}
	if f.Timeline != "" && string(b.Timeline) != f.Timeline {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		return strings.Contains(strings.ToLower(b.FullName), q) ||
			strings.Contains(strings.ToLower(b.Phone), q) ||
			strings.Contains(strings.ToLower(b.Email), q)
	}
	return true
}
