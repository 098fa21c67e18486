package models

// StartingWallet is credited to every account on first reference.
const StartingWallet = 100

type Account struct {
	PlayerID    int64 `json:"player_id" redis:"player_id"`
	Wallet      int64 `json:"wallet" redis:"wallet"`
	Bank        int64 `json:"bank" redis:"bank"`
	DailyStreak int   `json:"daily_streak" redis:"daily_streak"`
	LastClaim   int64 `json:"last_claim" redis:"last_claim"` // unix seconds, zero when never claimed
	Wins        int64 `json:"wins" redis:"wins"`
	Losses      int64 `json:"losses" redis:"losses"`
	CreatedAt   int64 `json:"created_at" redis:"created_at"`
}

// Total is the player's combined wallet and bank balance.
func (a *Account) Total() int64 {
	return a.Wallet + a.Bank
}
