package models

import "time"

// CommissionState is the explicit lifecycle state of a commission row.
// A closed commission has no row.
type CommissionState string

const (
	CommissionOpen     CommissionState = "open"
	CommissionQuoted   CommissionState = "quoted"
	CommissionAssigned CommissionState = "assigned"
)

type QuoteStatus string

const (
	QuotePending  QuoteStatus = "pending"
	QuoteAccepted QuoteStatus = "accepted"
)

type QuestionStatus string

const (
	QuestionPending  QuestionStatus = "pending"
	QuestionAnswered QuestionStatus = "answered"
)

// Commission is a unit of freelance work tracked by its ticket channel.
type Commission struct {
	ChannelID           int64           `json:"channel_id"`
	FreelancerChannelID int64           `json:"freelancer_channel_id"`
	FreelancerMessageID int64           `json:"freelancer_message_id"`
	CreatorID           int64           `json:"creator_id"`
	FreelancerID        *int64          `json:"freelancer_id,omitempty"`
	Department          string          `json:"department"`
	AccruedCents        int64           `json:"accrued_cents"`
	State               CommissionState `json:"state"`
	CreatedAt           time.Time       `json:"created_at"`
}

// Assigned reports whether a freelancer has been set on the commission.
func (c *Commission) Assigned() bool {
	return c.FreelancerID != nil
}

type Quote struct {
	MessageID    int64       `json:"message_id"`
	ChannelID    int64       `json:"channel_id"`
	FreelancerID int64       `json:"freelancer_id"`
	AmountCents  int64       `json:"amount_cents"`
	Status       QuoteStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

type Question struct {
	MessageID    int64          `json:"message_id"`
	ChannelID    int64          `json:"channel_id"`
	FreelancerID int64          `json:"freelancer_id"`
	Question     string         `json:"question"`
	Answer       *string        `json:"answer,omitempty"`
	Status       QuestionStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	AnsweredAt   *time.Time     `json:"answered_at,omitempty"`
}
