package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditEntry is one immutable row in the audit trail. Every balance mutation
// is paired with one of these.
type AuditEntry struct {
	ID        string `json:"id" redis:"id"`
	PlayerID  int64  `json:"player_id" redis:"player_id"`
	Action    string `json:"action" redis:"action"`
	Details   string `json:"details" redis:"details"`
	Timestamp int64  `json:"timestamp" redis:"timestamp"`
}

func NewAuditEntry(playerID int64, action, details string, at time.Time) *AuditEntry {
	return &AuditEntry{
		ID:        fmt.Sprintf("audit_%s_%d", at.Format("20060102"), uuid.New().ID()),
		PlayerID:  playerID,
		Action:    action,
		Details:   details,
		Timestamp: at.Unix(),
	}
}
