// Package fees computes deterministic integer fee shares for money-moving
// operations.
package fees

import "math/bits"

// BpsDenominator is the basis-point scale: 10000 bps == 100%.
const BpsDenominator = 10000

// Split returns floor(amount * rateBps / 10000). The multiply is widened to
// 128 bits so large amounts cannot overflow; identical inputs always give
// identical outputs. Rates above 10000 bps are treated as 10000.
func Split(amount uint64, rateBps uint16) uint64 {
	if rateBps > BpsDenominator {
		rateBps = BpsDenominator
	}
	hi, lo := bits.Mul64(amount, uint64(rateBps))
	quot, _ := bits.Div64(hi, lo, BpsDenominator)
	return quot
}

// Apportion divides amount across treasury, partner, and net shares. The
// three parts always sum to amount exactly; any remainder from integer
// division stays on the net side, never fabricated or dropped.
func Apportion(amount uint64, treasuryBps, partnerBps uint16) (treasury, partner, net uint64) {
	treasury = Split(amount, treasuryBps)
	partner = Split(amount, partnerBps)
	net = amount - treasury - partner
	return treasury, partner, net
}
