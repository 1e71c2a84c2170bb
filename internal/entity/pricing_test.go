package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestDefaultDealValueUsesExistingValue(t *testing.T) {
	lead := &Lead{Product: ProductGBC, DealValue: floatPtr(50000)}

	got := DefaultDealValue(lead)

	assert.NotNil(t, got)
	assert.Equal(t, 50000.0, *got)

	// Cópia, não aliasing do campo do lead.
	*got = 1
	assert.Equal(t, 50000.0, *lead.DealValue)
}

func TestDefaultDealValueMentoriaFast(t *testing.T) {
	lead := &Lead{Product: ProductMentoriaFast}

	got := DefaultDealValue(lead)

	assert.NotNil(t, got)
	assert.Equal(t, 18000.0, *got)
}

func TestDefaultDealValueGBCComInteresseFast(t *testing.T) {
	lead := &Lead{Product: ProductGBC, InteresseMentoriaFast: true}

	got := DefaultDealValue(lead)

	assert.NotNil(t, got)
	assert.Equal(t, 18000.0, *got)
}

func TestDefaultDealValueGBCSemInteresseFast(t *testing.T) {
	lead := &Lead{Product: ProductGBC}

	got := DefaultDealValue(lead)

	assert.NotNil(t, got)
	assert.Equal(t, 120000.0, *got)
}

func TestDefaultDealValueProdutoDesconhecido(t *testing.T) {
	lead := &Lead{Product: ProductProduto}

	assert.Nil(t, DefaultDealValue(lead))
}

func TestNegotiationDefaultValueTable(t *testing.T) {
	assert.Equal(t, 18000.0, NegotiationDefaultValue(ProductMentoriaFast))
	assert.Equal(t, 2000.0, NegotiationDefaultValue(ProductBoard))
	assert.Equal(t, 120000.0, NegotiationDefaultValue(ProductGBC))
	assert.Equal(t, 120000.0, NegotiationDefaultValue("qualquer_outro"))
}
