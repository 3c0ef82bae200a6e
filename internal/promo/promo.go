// Package promo maps promo code strings to discount rates.
package promo

// rates is the rule table. Lookups are case-sensitive; codes are already
// upper-cased when they are stored on the cart.
var rates = map[string]float64{
	"CROW10": 0.10,
}

// Evaluate returns the discount rate for a code, or 0 for any code it
// does not recognize. Unrecognized codes are not an error: carts may
// carry them, they simply buy nothing.
func Evaluate(code string) float64 {
	return rates[code]
}
