package odds

// Overround returns the booked percentage of a market: sum of 1/odds.
// FromProbabilities prices at (1+margin)/p, so its markets book 1/(1+margin)
// before rounding.
func Overround[L Label](o Odds[L]) float64 {
	total := 0.0
	for _, v := range o {
		if v <= 0 {
			return 0
		}
		total += 1 / v
	}
	return total
}

// Payout returns the share of stakes returned to players, 1/overround.
func Payout[L Label](o Odds[L]) float64 {
	over := Overround(o)
	if over <= 0 {
		return 0
	}
	return 1 / over
}

// RemoveMargin recovers fair probabilities from a priced market.
//
// Method: Multiplicative (proportional) normalisation
// trueProb_i = (1/odds_i) / sum_j(1/odds_j)
func RemoveMargin[L Label](o Odds[L]) Probabilities[L] {
	over := Overround(o)
	if over <= 0 {
		return nil
	}
	out := make(Probabilities[L], len(o))
	for label, v := range o {
		out[label] = (1 / v) / over
	}
	return out
}
