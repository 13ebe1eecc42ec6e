package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xavierca1/buyerleads/internal/entity"
)

func TestBuildBuyerWhere_Empty(t *testing.T) {
	where, args := buildBuyerWhere(entity.BuyerFilter{})

	assert.Equal(t, "", where)
	assert.Nil(t, args)
}

func TestBuildBuyerWhere_AllFilters(t *testing.T) {
	where, args := buildBuyerWhere(entity.BuyerFilter{
		City:         "Mohali",
		PropertyType: "Villa",
		Status:       "New",
		Timeline:     "0-3m",
		Query:        "sharma",
	})

	assert.Equal(t,
		` WHERE city::text = $1 AND property_type::text = $2 AND status::text = $3 AND timeline::text = $4`+
			` AND (full_name ILIKE $5 ESCAPE '\' OR phone ILIKE $5 ESCAPE '\' OR email ILIKE $5 ESCAPE '\')`,
		where)
	assert.Equal(t, []any{"Mohali", "Villa", "New", "0-3m", "%sharma%"}, args)
}

func TestBuildBuyerWhere_NumbersOnlyAndQuery(t *testing.T) {
	where, args := buildBuyerWhere(entity.BuyerFilter{Status: "Dropped", Query: "98"})

	assert.Contains(t, where, "status::text = $1")
	assert.Contains(t, where, "full_name ILIKE $2")
	assert.Equal(t, []any{"Dropped", "%98%"}, args)
}

func TestBuildBuyerWhere_EscapesLikeWildcards(t *testing.T) {
	_, args := buildBuyerWhere(entity.BuyerFilter{Query: `50%_off\`})

	assert.Equal(t, []any{`%50\%\_off\\%`}, args)
}
