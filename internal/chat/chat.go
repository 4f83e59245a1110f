// Package chat describes the chat-platform primitives the bot depends on,
// independent of any particular client library.
package chat

import (
	"context"
	"errors"
	"time"
)

// ErrMessageNotFound is returned when a referenced message or channel no longer exists
// or cannot be read by the bot.
var ErrMessageNotFound = errors.New("message not found")

type ButtonStyle int

const (
	ButtonPrimary ButtonStyle = iota + 1
	ButtonSecondary
	ButtonSuccess
	ButtonDanger
	ButtonLink
)

type Button struct {
	Label    string
	Style    ButtonStyle
	CustomID string
	URL      string
	Disabled bool
}

type SelectOption struct {
	Label       string
	Value       string
	Description string
}

type Select struct {
	CustomID    string
	Placeholder string
	Options     []SelectOption
}

type Field struct {
	Name   string
	Value  string
	Inline bool
}

type Embed struct {
	Title       string
	Description string
	URL         string
	Color       int
	Fields      []Field
	Author      string
	AuthorIcon  string
	Footer      string
	FooterIcon  string
	Thumbnail   string
	Image       string
	Timestamp   time.Time
}

// Message is a renderable message. Buttons share one row; Select gets its own row.
type Message struct {
	Content string
	Embeds  []Embed
	Buttons []Button
	Select  *Select
}

type TextInput struct {
	ID        string
	Label     string
	Long      bool
	Required  bool
	MaxLength int
	Value     string
}

type Modal struct {
	CustomID string
	Title    string
	Inputs   []TextInput
}

// TicketChannel describes a private channel created for a ticket.
type TicketChannel struct {
	Name       string
	CategoryID int64
	MemberIDs  []int64
	RoleIDs    []int64
}

// Platform is the set of chat operations the services call.
type Platform interface {
	Send(ctx context.Context, channelID int64, msg Message) (int64, error)
	Edit(ctx context.Context, channelID, messageID int64, msg Message) error
	Delete(ctx context.Context, channelID, messageID int64) error
	// MessageExists returns false with a nil error when the message is gone.
	MessageExists(ctx context.Context, channelID, messageID int64) (bool, error)
	SendDirect(ctx context.Context, userID int64, msg Message) error

	CreateTicketChannel(ctx context.Context, ch TicketChannel) (int64, error)
	DeleteChannel(ctx context.Context, channelID int64) error
	GrantAccess(ctx context.Context, channelID, userID int64) error
	RevokeAccess(ctx context.Context, channelID, userID int64) error
	AddRole(ctx context.Context, userID, roleID int64) error
}

// DisableButtons returns a copy of buttons with every non-link button disabled.
func DisableButtons(buttons []Button) []Button {
	out := make([]Button, len(buttons))
	for i, b := range buttons {
		if b.Style != ButtonLink {
			b.Disabled = true
		}
		out[i] = b
	}
	return out
}
