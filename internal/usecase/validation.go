package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xavierca1/buyerleads/internal/entity"
)

const (
	maxTags      = 20
	maxTagLength = 32
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldRule is one structural check. Tag is a go-playground/validator tag
// evaluated against the normalized string value; it is skipped when the
// value is absent and the field is optional.
type FieldRule struct {
	Field    string
	Required bool
	Tag      string
	Message  string
}

// CrossCheck is a named rule over the whole payload. It runs only once every
// field rule has passed.
type CrossCheck struct {
	Name  string
	Check func(p *entity.BuyerFields) *ValidationError
}

// Transform runs on a payload that already passed every check.
type Transform func(p *entity.BuyerFields)

var buyerRules = []FieldRule{
	{Field: "fullName", Required: true, Tag: "min=2,max=80", Message: "must be between 2 and 80 characters"},
	{Field: "email", Tag: "max=254,email", Message: "must be a valid email address"},
	{Field: "phone", Required: true, Tag: "number,min=10,max=15", Message: "must be 10 to 15 digits"},
	{Field: "city", Required: true, Tag: oneOf(entity.Cities), Message: "must be one of " + strings.Join(entity.Cities, ", ")},
	{Field: "propertyType", Required: true, Tag: oneOf(entity.PropertyTypes), Message: "must be one of " + strings.Join(entity.PropertyTypes, ", ")},
	{Field: "bhk", Tag: oneOf(entity.BHKs), Message: "must be one of " + strings.Join(entity.BHKs, ", ")},
	{Field: "purpose", Required: true, Tag: oneOf(entity.Purposes), Message: "must be one of " + strings.Join(entity.Purposes, ", ")},
	{Field: "budgetMin", Tag: "number,max=12", Message: "must be a non-negative integer"},
	{Field: "budgetMax", Tag: "number,max=12", Message: "must be a non-negative integer"},
	{Field: "timeline", Required: true, Tag: oneOf(entity.Timelines), Message: "must be one of " + strings.Join(entity.Timelines, ", ")},
	{Field: "source", Required: true, Tag: oneOf(entity.Sources), Message: "must be one of " + strings.Join(entity.Sources, ", ")},
	{Field: "notes", Tag: "max=1000", Message: "must not exceed 1000 characters"},
	{Field: "status", Tag: oneOf(entity.Statuses), Message: "must be one of " + strings.Join(entity.Statuses, ", ")},
}

var buyerCrossChecks = []CrossCheck{
	{Name: "bhkRequiredForResidential", Check: bhkRequiredForResidential},
	{Name: "bhkOnlyForResidential", Check: bhkOnlyForResidential},
	{Name: "budgetMaxNotBelowMin", Check: budgetMaxNotBelowMin},
}

func bhkRequiredForResidential(p *entity.BuyerFields) *ValidationError {
	if p.PropertyType.IsResidential() && p.BHK == "" {
		return &ValidationError{"bhk", "BHK required for Apartment/Villa"}
	}
	return nil
}

func bhkOnlyForResidential(p *entity.BuyerFields) *ValidationError {
	if !p.PropertyType.IsResidential() && p.BHK != "" {
		return &ValidationError{"bhk", "BHK only applies to Apartment/Villa"}
	}
	return nil
}

func budgetMaxNotBelowMin(p *entity.BuyerFields) *ValidationError {
	if p.BudgetMin != nil && p.BudgetMax != nil && *p.BudgetMax < *p.BudgetMin {
		return &ValidationError{"budgetMax", "budgetMax must be ≥ budgetMin"}
	}
	return nil
}

// coerceBudgets follows the spreadsheet convention where a zero budget cell
// means "not given".
func coerceBudgets(p *entity.BuyerFields) {
	if p.BudgetMin != nil && *p.BudgetMin == 0 {
		p.BudgetMin = nil
	}
	if p.BudgetMax != nil && *p.BudgetMax == 0 {
		p.BudgetMax = nil
	}
}

func oneOf(values []string) string {
	return "oneof=" + strings.Join(values, " ")
}

type ValidationResult struct {
	Payload *entity.BuyerFields
	Errors  []ValidationError
}

func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// FieldErrors groups messages by field path.
func FieldErrors(errs []ValidationError) map[string][]string {
	out := make(map[string][]string, len(errs))
	for _, e := range errs {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}

type Validator struct {
	engine      *validator.Validate
	rules       []FieldRule
	crossChecks []CrossCheck
	transforms  []Transform
}

func NewValidator() *Validator {
	return &Validator{
		engine:      validator.New(),
		rules:       buyerRules,
		crossChecks: buyerCrossChecks,
	}
}

// NewImportValidator is the variant used by CSV import.
func NewImportValidator() *Validator {
	v := NewValidator()
	v.transforms = append(v.transforms, coerceBudgets)
	return v
}

// Validate never fails on malformed input: every problem ends up in
// ValidationResult.Errors, all fields checked in one pass.
func (v *Validator) Validate(input BuyerInput) ValidationResult {
	values, tags := normalize(input)

	var errs []ValidationError
	for _, rule := range v.rules {
		value, present := values[rule.Field]
		if !present {
			if rule.Required {
				errs = append(errs, ValidationError{rule.Field, "Required"})
			}
			continue
		}
		if err := v.engine.Var(value, rule.Tag); err != nil {
			errs = append(errs, ValidationError{rule.Field, rule.Message})
		}
	}
	errs = append(errs, v.checkTags(tags)...)
	if len(errs) > 0 {
		return ValidationResult{Errors: errs}
	}

	payload := build(values, tags)
	for _, cc := range v.crossChecks {
		if e := cc.Check(payload); e != nil {
			errs = append(errs, *e)
		}
	}
	if len(errs) > 0 {
		return ValidationResult{Errors: errs}
	}

	for _, t := range v.transforms {
		t(payload)
	}
	return ValidationResult{Payload: payload}
}

func (v *Validator) checkTags(tags []string) []ValidationError {
	if len(tags) > maxTags {
		return []ValidationError{{"tags", fmt.Sprintf("must not have more than %d tags", maxTags)}}
	}
	for _, tag := range tags {
		if err := v.engine.Var(tag, fmt.Sprintf("max=%d", maxTagLength)); err != nil {
			return []ValidationError{{"tags", fmt.Sprintf("each tag must not exceed %d characters", maxTagLength)}}
		}
	}
	return nil
}

// normalize trims every field and drops empty ones, so that "" and a
// missing key mean the same thing.
func normalize(in BuyerInput) (map[string]string, []string) {
	raw := map[string]string{
		"fullName":     in.FullName,
		"email":        in.Email,
		"phone":        in.Phone,
		"city":         in.City,
		"propertyType": in.PropertyType,
		"bhk":          in.BHK,
		"purpose":      in.Purpose,
		"budgetMin":    string(in.BudgetMin),
		"budgetMax":    string(in.BudgetMax),
		"timeline":     in.Timeline,
		"source":       in.Source,
		"notes":        in.Notes,
		"status":       in.Status,
	}
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			values[k] = v
		}
	}

	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return values, tags
}

// build leaves an absent status empty: creation defaults it, update keeps the
// stored one.
func build(values map[string]string, tags []string) *entity.BuyerFields {
	p := &entity.BuyerFields{
		FullName:     values["fullName"],
		Email:        values["email"],
		Phone:        values["phone"],
		City:         entity.City(values["city"]),
		PropertyType: entity.PropertyType(values["propertyType"]),
		BHK:          entity.BHK(values["bhk"]),
		Purpose:      entity.Purpose(values["purpose"]),
		BudgetMin:    parseBudget(values["budgetMin"]),
		BudgetMax:    parseBudget(values["budgetMax"]),
		Timeline:     entity.Timeline(values["timeline"]),
		Source:       entity.Source(values["source"]),
		Notes:        values["notes"],
		Tags:         tags,
		Status:       entity.Status(values["status"]),
	}
	return p
}

func parseBudget(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
