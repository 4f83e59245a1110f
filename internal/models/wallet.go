package models

import (
	"time"

	"github.com/google/uuid"
)

// Wallet entry_type values.
const (
	WalletEntryCommissionPayout = "commission_payout"
	WalletEntryWithdrawal       = "withdrawal"
	WalletEntryWithdrawalRefund = "withdrawal_refund"
)

type WithdrawalOutcome string

const (
	WithdrawalAccept WithdrawalOutcome = "accept"
	WithdrawalDeny   WithdrawalOutcome = "deny"
)

func (o WithdrawalOutcome) Valid() bool {
	return o == WithdrawalAccept || o == WithdrawalDeny
}

type Wallet struct {
	MemberID     int64     `json:"member_id"`
	PayPalEmail  *string   `json:"paypal_email,omitempty"`
	BalanceCents int64     `json:"balance_cents"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Withdrawal is a pending cash-out request keyed by its admin-review message.
type Withdrawal struct {
	MessageID    int64     `json:"message_id"`
	FreelancerID int64     `json:"freelancer_id"`
	AmountCents  int64     `json:"amount_cents"`
	PayPalEmail  string    `json:"paypal_email"`
	CreatedAt    time.Time `json:"created_at"`
}

type WalletEntry struct {
	ID                uuid.UUID `json:"id"`
	MemberID          int64     `json:"member_id"`
	EntryType         string    `json:"entry_type"`
	AmountCents       int64     `json:"amount_cents"`
	BalanceAfterCents int64     `json:"balance_after_cents"`
	Reference         string    `json:"reference"`
	CreatedAt         time.Time `json:"created_at"`
}
