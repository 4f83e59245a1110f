package services

import (
	"context"
	"errors"
	"testing"

	"github.com/inaiurai/commissionbot/internal/config"
	"github.com/inaiurai/commissionbot/internal/models"
)

func TestOpenTicket_QuotesOpensCommission(t *testing.T) {
	h := newHarness()
	actor := Actor{UserID: creatorID, Name: "Client Name!"}

	res, err := h.tickets.OpenTicket(context.Background(), actor, OpenTicketRequest{
		Category:   config.CategoryQuotes,
		Department: "builds",
		Answers:    []Answer{{Reference: "budget", Label: "Budget", Value: "$100"}},
	})
	if err != nil {
		t.Fatalf("OpenTicket: %v", err)
	}
	if len(h.chat.channels) != 1 {
		t.Fatalf("channels created = %d, want 1", len(h.chat.channels))
	}
	ch := h.chat.channels[0]
	if ch.Name != "quotes-clientname" || ch.CategoryID != 600 || len(ch.RoleIDs) != 1 {
		t.Errorf("channel = %+v", ch)
	}
	board := h.chat.sentTo(buildsChannel)
	if len(board) != 1 || len(board[0].Msg.Buttons) != 2 {
		t.Fatalf("board messages = %+v", board)
	}

	c, ok := h.store.snapshot().commissions[res.ChannelID]
	if !ok {
		t.Fatal("commission not stored")
	}
	if c.State != models.CommissionOpen || c.CreatorID != creatorID || c.FreelancerMessageID != board[0].MessageID || c.Department != "Builds" {
		t.Errorf("commission = %+v", c)
	}
}

func TestOpenTicket_SupportHasNoCommission(t *testing.T) {
	h := newHarness()

	res, err := h.tickets.OpenTicket(context.Background(), creator(), OpenTicketRequest{Category: config.CategorySupport})
	if err != nil {
		t.Fatalf("OpenTicket: %v", err)
	}
	if res.Commission != nil || len(h.store.snapshot().commissions) != 0 {
		t.Error("support ticket opened a commission")
	}
	if len(h.chat.sentTo(res.ChannelID)) != 1 {
		t.Error("ticket summary not posted")
	}
}

func TestOpenTicket_Rejections(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	if _, err := h.tickets.OpenTicket(ctx, creator(), OpenTicketRequest{Category: "apply"}); !errors.Is(err, ErrValidation) {
		t.Errorf("unconfigured category err = %v, want ErrValidation", err)
	}
	if _, err := h.tickets.OpenTicket(ctx, creator(), OpenTicketRequest{Category: config.CategoryQuotes, Department: "Nope"}); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown department err = %v, want ErrValidation", err)
	}
	if len(h.chat.channels) != 0 {
		t.Errorf("channels created = %d, want 0", len(h.chat.channels))
	}
}

func TestAddRemoveMember_RequireStaff(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	staff := Actor{UserID: 77, RoleIDs: []int64{ticketRole}}

	if err := h.tickets.AddMember(ctx, creator(), commissionChanID, 5); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("AddMember err = %v, want ErrPermissionDenied", err)
	}
	if err := h.tickets.AddMember(ctx, staff, commissionChanID, 5); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if err := h.tickets.RemoveMember(ctx, staff, commissionChanID, 5); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if len(h.chat.granted[commissionChanID]) != 1 || len(h.chat.revoked[commissionChanID]) != 1 {
		t.Errorf("granted = %v revoked = %v", h.chat.granted, h.chat.revoked)
	}
}

func TestWelcomeMember(t *testing.T) {
	h := newHarness()
	h.tickets.WelcomeMember(context.Background(), 4444)

	if got := h.chat.roles[4444]; len(got) != 1 || got[0] != 30 {
		t.Errorf("roles = %v, want [30]", got)
	}
	if len(h.chat.sentTo(800)) != 1 {
		t.Error("welcome not posted")
	}
}
