// Package actions is the closed set of component and modal identifiers the
// bot renders and later receives back in interactions.
package actions

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Action string

const (
	TicketOpen       Action = "ticket:open"
	TicketDepartment Action = "ticket:department"
	TicketForm       Action = "ticket:form"
	TicketClose      Action = "ticket:close"

	QuoteStart    Action = "freelancer:quote"
	QuoteForm     Action = "freelancer:quote_form"
	QuestionStart Action = "freelancer:question"
	QuestionForm  Action = "freelancer:question_form"

	QuoteAccept       Action = "client:accept"
	QuoteDecline      Action = "client:decline"
	QuestionReply     Action = "client:reply"
	QuestionReplyForm Action = "client:reply_form"

	WalletPayPal     Action = "wallet:paypal"
	WalletPayPalForm Action = "wallet:paypal_form"
	WalletWithdraw   Action = "wallet:withdraw"

	WithdrawalAccept Action = "admin_wallet:accept"
	WithdrawalDeny   Action = "admin_wallet:deny"

	ProfileEdit Action = "profile:edit"
	ProfileForm Action = "profile:form"

	VouchRating Action = "vouch:rating"
	VouchForm   Action = "vouch:form"
)

// All lists every action; dispatch tables are checked against it.
var All = []Action{
	TicketOpen, TicketDepartment, TicketForm, TicketClose,
	QuoteStart, QuoteForm, QuestionStart, QuestionForm,
	QuoteAccept, QuoteDecline, QuestionReply, QuestionReplyForm,
	WalletPayPal, WalletPayPalForm, WalletWithdraw,
	WithdrawalAccept, WithdrawalDeny,
	ProfileEdit, ProfileForm,
	VouchRating, VouchForm,
}

var known = func() map[Action]bool {
	m := make(map[Action]bool, len(All))
	for _, a := range All {
		m[a] = true
	}
	return m
}()

var ErrUnknownAction = errors.New("unknown action")

// ID encodes the action with positional arguments: "client:accept:123".
func (a Action) ID(args ...any) string {
	if len(args) == 0 {
		return string(a)
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, string(a))
	for _, arg := range args {
		parts = append(parts, fmt.Sprint(arg))
	}
	return strings.Join(parts, ":")
}

// Parsed is a decoded custom id.
type Parsed struct {
	Action Action
	Args   []string
}

// Parse splits a custom id into its action and arguments.
func Parse(customID string) (Parsed, error) {
	parts := strings.Split(customID, ":")
	if len(parts) < 2 {
		return Parsed{}, fmt.Errorf("%w: %q", ErrUnknownAction, customID)
	}
	a := Action(parts[0] + ":" + parts[1])
	if !known[a] {
		return Parsed{}, fmt.Errorf("%w: %q", ErrUnknownAction, customID)
	}
	return Parsed{Action: a, Args: parts[2:]}, nil
}

// Int64 returns argument i as an id.
func (p Parsed) Int64(i int) (int64, error) {
	if i >= len(p.Args) {
		return 0, fmt.Errorf("%s: missing argument %d", p.Action, i)
	}
	v, err := strconv.ParseInt(p.Args[i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: argument %d: %w", p.Action, i, err)
	}
	return v, nil
}

// String returns argument i, or "" when absent.
func (p Parsed) String(i int) string {
	if i >= len(p.Args) {
		return ""
	}
	return p.Args[i]
}
