// Package game resolves rounds of blackjack between one simulated player and
// the dealer.
//
// A round runs Bet, Deal, CheckNaturals, PlayerTurn, DealerTurn and Settle in
// order. The player carries several wallets that each size their own wager on
// the same cards, so one game compares betting policies side by side. Other
// seats at the table are not simulated; their draws are approximated by
// burning cards.
//
// A Game is not safe for concurrent use. Run independent games in parallel
// instead, as the simulator package does.
package game
