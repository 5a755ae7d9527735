package pricing

import (
	"testing"

	"fleur_back_end/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestEffectivePrice(t *testing.T) {
	tests := []struct {
		name    string
		product models.Product
		want    string
	}{
		{"list price only", models.Product{Price: dec("1000")}, "1000"},
		{"sale overrides", models.Product{Price: dec("1000"), SalePrice: decPtr("800")}, "800"},
		{"sale at zero still overrides", models.Product{Price: dec("1000"), SalePrice: decPtr("0")}, "0"},
		{"negative clamps", models.Product{Price: dec("-5")}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, dec(tt.want).Equal(EffectivePrice(tt.product)), "got %s", EffectivePrice(tt.product))
		})
	}
}

func TestSubtotal(t *testing.T) {
	assert.True(t, dec("1600").Equal(Subtotal(dec("800"), 2)))
	assert.True(t, decimal.Zero.Equal(Subtotal(dec("800"), 0)))
	assert.True(t, decimal.Zero.Equal(Subtotal(dec("800"), -3)))
	assert.True(t, dec("31.05").Equal(Subtotal(dec("10.35"), 3)))
}

func TestTotalScenario(t *testing.T) {
	a := models.Product{Price: dec("1000"), SalePrice: decPtr("800")}
	b := models.Product{Price: dec("500")}

	total := Total([]Line{
		{UnitPrice: EffectivePrice(a), Quantity: 2},
		{UnitPrice: EffectivePrice(b), Quantity: 1},
	})

	assert.True(t, dec("2100").Equal(total), "got %s", total)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(250000), MinorUnits(dec("2500")))
	assert.Equal(t, int64(1999), MinorUnits(dec("19.99")))
	assert.Equal(t, int64(0), MinorUnits(dec("-1")))
}
