package entity

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func lead(name, city, phone, email string) *BuyerLead {
	return &BuyerLead{BuyerFields: BuyerFields{
		FullName: name, City: City(city), Phone: phone, Email: email,
		PropertyType: PropertyPlot, Status: StatusNew, Timeline: TimelineExploring,
	}}
}

func TestBuyerFilter_Match(t *testing.T) {
	f := BuyerFilter{City: "Mohali", Query: "Sharma"}

	assert.True(t, f.Match(lead("Rohit Sharma", "Mohali", "9876543210", "")))
	assert.True(t, f.Match(lead("Anil", "Mohali", "9876543210", "anil.sharma@example.com")))
	assert.False(t, f.Match(lead("Priya Sharma", "Zirakpur", "9876543210", "")))
	assert.False(t, f.Match(lead("Gurpreet Singh", "Mohali", "9876543210", "")))
}

func TestBuyerFilter_QueryMatchesPhone(t *testing.T) {
	f := BuyerFilter{Query: "43210"}

	assert.True(t, f.Match(lead("Rohit", "Mohali", "9876543210", "")))
}

func TestBuyerFilter_EmptyMatchesAll(t *testing.T) {
	f := BuyerFilter{}

	assert.True(t, f.IsEmpty())
	assert.True(t, f.Match(lead("Rohit", "Other", "9876543210", "")))
}

func TestBuyerFilter_EqualityFields(t *testing.T) {
	b := lead("Rohit", "Mohali", "9876543210", "")

	assert.True(t, BuyerFilter{PropertyType: "Plot", Status: "New", Timeline: "Exploring"}.Match(b))
	assert.False(t, BuyerFilter{Status: "Dropped"}.Match(b))
	assert.False(t, BuyerFilter{Timeline: "0-3m"}.Match(b))
	assert.False(t, BuyerFilter{PropertyType: "Villa"}.Match(b))
}

func TestFilterFromValues(t *testing.T) {
	v := url.Values{"city": {" Mohali "}, "q": {"sharma"}, "page": {"2"}}

	assert.Equal(t, BuyerFilter{City: "Mohali", Query: "sharma"}, FilterFromValues(v))
}
