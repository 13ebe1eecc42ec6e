package entity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrBuyerNotFound   = errors.New("buyer not found")
	ErrVersionConflict = errors.New("buyer was modified by another request")
	ErrDuplicateBuyer  = errors.New("buyer already exists")
)

type City string

const (
	CityChandigarh City = "Chandigarh"
	CityMohali     City = "Mohali"
	CityZirakpur   City = "Zirakpur"
	CityPanchkula  City = "Panchkula"
	CityOther      City = "Other"
)

type PropertyType string

const (
	PropertyApartment PropertyType = "Apartment"
	PropertyVilla     PropertyType = "Villa"
	PropertyPlot      PropertyType = "Plot"
	PropertyOffice    PropertyType = "Office"
	PropertyRetail    PropertyType = "Retail"
)

// IsResidential reports whether the property type carries a BHK classifier.
func (p PropertyType) IsResidential() bool {
	return p == PropertyApartment || p == PropertyVilla
}

type BHK string

const (
	BHK1      BHK = "1"
	BHK2      BHK = "2"
	BHK3      BHK = "3"
	BHK4      BHK = "4"
	BHKStudio BHK = "Studio"
)

type Purpose string

const (
	PurposeBuy  Purpose = "Buy"
	PurposeRent Purpose = "Rent"
)

type Timeline string

const (
	Timeline0to3m     Timeline = "0-3m"
	Timeline3to6m     Timeline = "3-6m"
	TimelineOver6m    Timeline = ">6m"
	TimelineExploring Timeline = "Exploring"
)

type Source string

const (
	SourceWebsite  Source = "Website"
	SourceReferral Source = "Referral"
	SourceWalkIn   Source = "Walk-in"
	SourceCall     Source = "Call"
	SourceOther    Source = "Other"
)

type Status string

const (
	StatusNew         Status = "New"
	StatusQualified   Status = "Qualified"
	StatusContacted   Status = "Contacted"
	StatusVisited     Status = "Visited"
	StatusNegotiation Status = "Negotiation"
	StatusConverted   Status = "Converted"
	StatusDropped     Status = "Dropped"
)

// Enum value sets, in display order.
var (
	Cities        = []string{"Chandigarh", "Mohali", "Zirakpur", "Panchkula", "Other"}
	PropertyTypes = []string{"Apartment", "Villa", "Plot", "Office", "Retail"}
	BHKs          = []string{"1", "2", "3", "4", "Studio"}
	Purposes      = []string{"Buy", "Rent"}
	Timelines     = []string{"0-3m", "3-6m", ">6m", "Exploring"}
	Sources       = []string{"Website", "Referral", "Walk-in", "Call", "Other"}
	Statuses      = []string{"New", "Qualified", "Contacted", "Visited", "Negotiation", "Converted", "Dropped"}
)

// BuyerFields are the user-editable attributes of a lead. Empty strings and
// nil pointers mean "absent".
type BuyerFields struct {
	FullName     string       `json:"fullName"`
	Email        string       `json:"email,omitempty"`
	Phone        string       `json:"phone"`
	City         City         `json:"city"`
	PropertyType PropertyType `json:"propertyType"`
	BHK          BHK          `json:"bhk,omitempty"`
	Purpose      Purpose      `json:"purpose"`
	BudgetMin    *int         `json:"budgetMin,omitempty"`
	BudgetMax    *int         `json:"budgetMax,omitempty"`
	Timeline     Timeline     `json:"timeline"`
	Source       Source       `json:"source"`
	Notes        string       `json:"notes,omitempty"`
	Tags         []string     `json:"tags"`
	Status       Status       `json:"status"`
}

// BuyerLead is a persisted lead. UpdatedAt doubles as the optimistic
// concurrency version token.
type BuyerLead struct {
	ID string `json:"id"`
	BuyerFields
	OwnerID   string    `json:"ownerId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBuyerLead builds a lead ready for insertion.
func NewBuyerLead(id string, fields BuyerFields, ownerID string, now time.Time) *BuyerLead {
	if fields.Status == "" {
		fields.Status = StatusNew
	}
	if fields.Tags == nil {
		fields.Tags = []string{}
	}
	return &BuyerLead{
		ID:          id,
		BuyerFields: fields,
		OwnerID:     ownerID,
		UpdatedAt:   now,
	}
}

// Apply replaces the editable fields, keeping id and owner. An absent status
// leaves the current one in place.
func (b *BuyerLead) Apply(fields BuyerFields, now time.Time) {
	if fields.Status == "" {
		fields.Status = b.Status
	}
	if fields.Tags == nil {
		fields.Tags = []string{}
	}
	b.BuyerFields = fields
	b.UpdatedAt = now
}

// NextVersion returns a mutation timestamp strictly after the current one.
// Postgres keeps microseconds, so the token is truncated to match.
func (b *BuyerLead) NextVersion(now time.Time) time.Time {
	next := now.UTC().Truncate(time.Microsecond)
	if !next.After(b.UpdatedAt) {
		next = b.UpdatedAt.Add(time.Microsecond)
	}
	return next
}

type BuyerPage struct {
	Buyers     []*BuyerLead `json:"buyers"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	Total      int          `json:"total"`
	TotalPages int          `json:"totalPages"`
}

type BuyerRepository interface {
	Create(ctx context.Context, b *BuyerLead) error
	CreateBatch(ctx context.Context, buyers []*BuyerLead) error
	FindByID(ctx context.Context, id string) (*BuyerLead, error)
	FindByIDForUpdate(ctx context.Context, id string) (*BuyerLead, error)
	Update(ctx context.Context, b *BuyerLead, expected time.Time) error
	List(ctx context.Context, filter BuyerFilter, limit, offset int) ([]*BuyerLead, error)
	Count(ctx context.Context, filter BuyerFilter) (int, error)
}
