package store

const (
	KeyAccount     = "account:%d"
	KeyConfig      = "config:%s"
	KeyAuditLog    = "audit:log"
	KeyLeaderboard = "leaderboard"
	KeyRateLimit   = "ratelimit:%d:%s"

	// AuditLogCap bounds the audit list; older rows fall off the tail.
	AuditLogCap = 1000
)

// House configuration keys. Seeded with defaults at startup, mutated only by
// administrative action and jackpot accrual/payout.
const (
	ConfigHouseEdge   = "house_edge"
	ConfigMaxBet      = "max_bet"
	ConfigJackpotPool = "jackpot_pool"
	ConfigJackpotRate = "jackpot_rate"
)

const (
	DefaultHouseEdge   = "0.05"
	DefaultMaxBet      = "50000"
	DefaultJackpotPool = "100000"
	DefaultJackpotRate = "0.01"
)
