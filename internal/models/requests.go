package models

// Request bodies for the HTTP surface. Amounts arrive as strings so players
// can write "2.5k" or "all"; ParseAmount turns them into integers.

type BetRequest struct {
	Amount string `json:"amount" binding:"required"`
}

type CrashJoinRequest struct {
	Scope  string `json:"scope" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

type CrashCashoutRequest struct {
	Scope string `json:"scope" binding:"required"`
}

type DuelChallengeRequest struct {
	TargetID int64  `json:"target_id" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
}

type CoinflipRequest struct {
	Side   string `json:"side" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

type DiceRequest struct {
	Target int    `json:"target" binding:"required,min=1,max=99"`
	Amount string `json:"amount" binding:"required"`
}

type RouletteRequest struct {
	Color  string `json:"color" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

type TransferRequest struct {
	TargetID int64  `json:"target_id" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
}
