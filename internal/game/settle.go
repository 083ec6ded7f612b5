package game

// Settlement is the monetary result of one round. Payout is the full credit
// (stake plus winnings) applied to the balance when the cash-out held.
type Settlement struct {
	Profit    float64
	Payout    float64
	CashedOut bool
}

// Settle computes the round result for the given bet and final crash point.
// The stake was debited at placement, so a won round credits amount times the
// cash-out multiplier in one step and a lost round needs no further
// adjustment. The tie-break is deliberately inclusive: a cash-out recorded at
// exactly the crash point wins.
func Settle(bet *Bet, crashPoint float64) Settlement {
	if bet == nil {
		return Settlement{}
	}

	if bet.CashedOutAt != nil && *bet.CashedOutAt <= crashPoint {
		payout := Round2(bet.Amount * *bet.CashedOutAt)

		return Settlement{
			Profit:    Round2(payout - bet.Amount),
			Payout:    payout,
			CashedOut: true,
		}
	}

	return Settlement{Profit: -bet.Amount}
}
