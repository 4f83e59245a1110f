package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/inaiurai/commissionbot/internal/chat"
	"github.com/inaiurai/commissionbot/internal/services"
)

type Kind int

const (
	KindCommand Kind = iota + 1
	KindComponent
	KindModal
)

// Interaction is a platform-neutral user interaction.
type Interaction struct {
	ID        string
	Kind      Kind
	GuildID   int64
	ChannelID int64
	// MessageID is the message a component was attached to.
	MessageID int64
	Actor     services.Actor

	Command    string
	Subcommand string
	Options    map[string]string

	CustomID string
	Values   []string
	Fields   map[string]string
}

func (i *Interaction) Option(name string) string {
	return strings.TrimSpace(i.Options[name])
}

// OptionID parses a user, channel or numeric option.
func (i *Interaction) OptionID(name string) (int64, error) {
	raw := i.Option(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", services.ErrValidation, name)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an id", services.ErrValidation, name)
	}
	return v, nil
}

func (i *Interaction) Field(id string) string {
	return strings.TrimSpace(i.Fields[id])
}

type ResponseKind int

const (
	// RespondMessage replies with a new message.
	RespondMessage ResponseKind = iota + 1
	// RespondModal opens a form.
	RespondModal
	// RespondUpdate edits the message the component belongs to.
	RespondUpdate
)

type Response struct {
	Kind      ResponseKind
	Message   chat.Message
	Modal     *chat.Modal
	Ephemeral bool
	// After runs once the response has been delivered.
	After func(ctx context.Context)
}

func reply(content string) *Response {
	return &Response{Kind: RespondMessage, Message: chat.Message{Content: content}, Ephemeral: true}
}

func replyMessage(msg chat.Message) *Response {
	return &Response{Kind: RespondMessage, Message: msg, Ephemeral: true}
}

func publicMessage(msg chat.Message) *Response {
	return &Response{Kind: RespondMessage, Message: msg}
}

func modal(m chat.Modal) *Response {
	return &Response{Kind: RespondModal, Modal: &m}
}
