// Package pricing calcule le prix effectif (promo prioritaire) et les totaux.
package pricing

import (
	"fleur_back_end/internal/models"

	"github.com/shopspring/decimal"
)

// Line est une ligne valorisable : un prix effectif et une quantité.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// EffectivePrice renvoie le prix promo s'il est défini, sinon le prix catalogue.
func EffectivePrice(p models.Product) decimal.Decimal {
	if p.SalePrice != nil {
		return clamp(*p.SalePrice)
	}
	return clamp(p.Price)
}

// Subtotal renvoie prix × quantité, jamais négatif.
func Subtotal(price decimal.Decimal, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return clamp(price).Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// Total additionne les sous-totaux des lignes.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(Subtotal(l.UnitPrice, l.Quantity))
	}
	return total
}

// MinorUnits convertit un montant en centimes pour la passerelle de paiement.
func MinorUnits(amount decimal.Decimal) int64 {
	return clamp(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
