// Package audit provides the append-only transaction log. Recording is
// best-effort and deliberately decoupled from ledger consistency: a failed
// write surfaces as ErrPersistence to the caller, but the ledger mutation it
// describes is never rolled back.
package audit

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrPersistence indicates the durable log could not be written.
var ErrPersistence = errors.New("audit log write failed")

// Actions recorded in the log.
const (
	ActionDeposit  = "deposit"
	ActionWithdraw = "withdraw"
	ActionTransfer = "transfer"
)

// Entry is one transaction attempt, immutable once recorded.
type Entry struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Timestamp     time.Time `gorm:"index" json:"timestamp"`
	Username      string    `gorm:"index" json:"username"`
	AccountNumber string    `json:"account_number"`
	Action        string    `json:"action"`
	Amount        int64     `json:"amount"`
	Success       bool      `json:"success"`
}

// TableName gives the gorm table for the relational sink.
func (Entry) TableName() string { return "audit_entries" }

// NewEntry stamps an attempt with an ID and the current time.
func NewEntry(username, accountNumber, action string, amount int64, success bool) Entry {
	return Entry{
		ID:            uuid.New(),
		Timestamp:     time.Now(),
		Username:      username,
		AccountNumber: accountNumber,
		Action:        action,
		Amount:        amount,
		Success:       success,
	}
}

// Recorder appends entries to a durable log.
type Recorder interface {
	Record(entry Entry) error
}
