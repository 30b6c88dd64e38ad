package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidStatus(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, IsValidStatus(s), s)
	}
	assert.False(t, IsValidStatus("active"))
	assert.False(t, IsValidStatus(""))
}

func TestNormalizeSymbol(t *testing.T) {
	require.NotNil(t, NormalizeSymbol(" AAPL "))
	assert.Equal(t, "AAPL", *NormalizeSymbol(" AAPL "))
	assert.Equal(t, "btc", *NormalizeSymbol("btc"))
	assert.Nil(t, NormalizeSymbol("   "))
}

func TestProductClone(t *testing.T) {
	p := &Product{ID: 1, Name: "Apple Stock", Price: decimal.RequireFromString("150.25"), Symbol: NormalizeSymbol("AAPL")}
	c := p.Clone()
	*c.Symbol = "MSFT"
	c.Name = "changed"

	assert.Equal(t, "AAPL", p.SymbolValue())
	assert.Equal(t, "Apple Stock", p.Name)
	assert.Equal(t, "", (&Product{}).SymbolValue())
}

func TestValidationError(t *testing.T) {
	verr := &ValidationError{}
	assert.NoError(t, verr.OrNil())

	verr.Add("price", "must be greater than 0")
	verr.Add("name", "is required")
	err := verr.OrNil()
	require.Error(t, err)
	assert.Equal(t, "validation failed: price: must be greater than 0; name: is required", err.Error())

	var target *ValidationError
	assert.True(t, errors.As(err, &target))
	assert.Len(t, target.Fields, 2)
}
