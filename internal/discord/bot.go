package discord

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/inaiurai/commissionbot/internal/handlers"
)

const interactionTimeout = 2 * time.Minute

// Welcomer greets members that join the guild.
type Welcomer interface {
	WelcomeMember(ctx context.Context, memberID int64)
}

type responder interface {
	InteractionRespond(i *discordgo.Interaction, r *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(i *discordgo.Interaction, e *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Bot connects gateway events to the interaction handler.
type Bot struct {
	Handler  *handlers.Handler
	Welcomer Welcomer
	GuildID  int64
	Logger   *slog.Logger
	// OnReady runs once, after the first READY event.
	OnReady func(s *discordgo.Session)

	ctx       context.Context
	readyOnce sync.Once
}

func (b *Bot) log() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

// Attach registers the event handlers on s. Handlers run under ctx.
func (b *Bot) Attach(ctx context.Context, s *discordgo.Session) {
	b.ctx = ctx
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	s.AddHandler(b.onReady)
	s.AddHandler(b.onInteraction)
	s.AddHandler(b.onMemberAdd)
}

func (b *Bot) baseContext() context.Context {
	if b.ctx == nil {
		return context.Background()
	}
	return b.ctx
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log().Info("gateway ready", "user", r.User.Username, "guilds", len(r.Guilds))
	b.readyOnce.Do(func() {
		if b.OnReady != nil {
			b.OnReady(s)
		}
	})
}

func (b *Bot) onMemberAdd(_ *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if b.Welcomer == nil || m.Member == nil || m.Member.User == nil || m.Member.User.Bot {
		return
	}
	if parseID(m.GuildID) != b.GuildID {
		return
	}
	ctx, cancel := context.WithTimeout(b.baseContext(), interactionTimeout)
	defer cancel()
	b.Welcomer.WelcomeMember(ctx, parseID(m.Member.User.ID))
}

func (b *Bot) onInteraction(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(b.baseContext(), interactionTimeout)
	defer cancel()
	b.serve(ctx, s, ic.Interaction)
}

// serve handles one interaction and delivers its reply.
func (b *Bot) serve(ctx context.Context, r responder, in *discordgo.Interaction) {
	logger := b.log().With("interaction_id", in.ID)
	if parseID(in.GuildID) != b.GuildID {
		logger.Debug("interaction outside the configured guild ignored", "guild_id", in.GuildID)
		return
	}
	i, err := toInteraction(in)
	if err != nil {
		logger.Warn("unsupported interaction", "error", err)
		return
	}

	deferred := b.Handler.Deferred(i)
	if deferred {
		ack := &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
		}
		if err := r.InteractionRespond(in, ack, discordgo.WithContext(ctx)); err != nil {
			logger.Error("defer interaction", "error", err)
			return
		}
	}

	resp := b.Handler.Handle(ctx, i)
	if resp == nil {
		return
	}
	if deferred {
		_, err = r.InteractionResponseEdit(in, renderWebhookEdit(resp), discordgo.WithContext(ctx))
	} else {
		err = r.InteractionRespond(in, renderResponse(resp), discordgo.WithContext(ctx))
	}
	if err != nil {
		logger.Error("respond to interaction", "error", err)
		return
	}
	if resp.After != nil {
		resp.After(ctx)
	}
}
