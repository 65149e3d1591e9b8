// Package discord adapts gateway events into pipeline calls and renders the
// pipeline's pickers, forms and replies as Discord components.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/fazendarp/stashbot/internal/pipeline"
	"github.com/fazendarp/stashbot/internal/routing"
	"github.com/fazendarp/stashbot/pkg/enums"
	pkgerrors "github.com/fazendarp/stashbot/pkg/errors"
	"github.com/fazendarp/stashbot/pkg/logger"
)

// NewSession builds a gateway session with the guild intents the bot needs.
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds
	return session, nil
}

// Bot receives interaction events and drives the pipeline.
type Bot struct {
	session   *discordgo.Session
	pipeline  *pipeline.Pipeline
	routes    *routing.Table
	messenger *Messenger
	logg      *logger.Logger
}

// Params carries the bot's dependencies.
type Params struct {
	Session   *discordgo.Session
	Pipeline  *pipeline.Pipeline
	Routes    *routing.Table
	Messenger *Messenger
	Logger    *logger.Logger
}

// NewBot registers the event handlers on the session.
func NewBot(p Params) (*Bot, error) {
	switch {
	case p.Session == nil:
		return nil, fmt.Errorf("discord session required")
	case p.Pipeline == nil:
		return nil, fmt.Errorf("pipeline required")
	case p.Routes == nil:
		return nil, fmt.Errorf("routing table required")
	case p.Messenger == nil:
		return nil, fmt.Errorf("messenger required")
	case p.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}

	bot := &Bot{
		session:   p.Session,
		pipeline:  p.Pipeline,
		routes:    p.Routes,
		messenger: p.Messenger,
		logg:      p.Logger,
	}
	bot.session.AddHandler(bot.handleReady)
	bot.session.AddHandler(bot.handleInteraction)
	return bot, nil
}

// Start opens the gateway connection.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening discord gateway: %w", err)
	}
	return nil
}

// Close shuts the gateway connection down.
func (b *Bot) Close() error {
	return b.session.Close()
}

// handleReady posts the entry buttons to every registration channel. A
// missing channel is logged and skipped so one bad id does not stop the
// others.
func (b *Bot) handleReady(_ *discordgo.Session, _ *discordgo.Ready) {
	ctx := context.Background()
	b.logg.Info(ctx, "gateway ready")

	for _, channelID := range b.routes.Origins() {
		if err := b.messenger.PostButtons(ctx, channelID); err != nil {
			b.logg.Error(b.logg.WithChannelID(ctx, channelID), "posting entry buttons", err)
		}
	}
}

// handleInteraction dispatches one gateway interaction. Panics are converted
// into a generic visible failure so the in-flight request is never left
// unresolved and other interactions keep flowing.
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	if i.Member != nil && i.Member.User != nil {
		ctx = b.logg.WithActorID(ctx, i.Member.User.ID)
	}
	ctx = b.logg.WithInteractionID(ctx, i.ID)

	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("panic: %v", rec)
			b.logg.Error(ctx, "interaction handler panicked", err)
			b.replyError(s, i, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
		}
	}()

	switch i.Type {
	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		if direction, ok := parseDirectionID(data.CustomID, buttonPrefix); ok {
			b.onDirectionButton(ctx, s, i, direction)
			return
		}
		if direction, ok := parseDirectionID(data.CustomID, pickerPrefix); ok {
			b.onItemsPicked(ctx, s, i, direction, data.Values)
			return
		}
		b.logg.Warn(ctx, fmt.Sprintf("unrecognized component id %q", data.CustomID))
	case discordgo.InteractionModalSubmit:
		if i.ModalSubmitData().CustomID == modalID {
			b.onQuantitiesSubmitted(ctx, s, i)
			return
		}
		b.logg.Warn(ctx, fmt.Sprintf("unrecognized modal id %q", i.ModalSubmitData().CustomID))
	}
}

func (b *Bot) onDirectionButton(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, direction enums.Direction) {
	picker, err := b.pipeline.BeginMovement(direction)
	if err != nil {
		b.replyError(s, i, err)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    fmt.Sprintf("📦 Selecione os itens para registrar %s:", direction),
			Components: pickerComponents(picker),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logg.Error(ctx, "responding with item picker", err)
	}
}

func (b *Bot) onItemsPicked(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, direction enums.Direction, items []string) {
	form, err := b.pipeline.StoreSelection(ctx, actorID(i), i.ChannelID, direction, items)
	if err != nil {
		b.replyError(s, i, err)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   modalID,
			Title:      "Quantidades dos Itens",
			Components: modalComponents(form),
		},
	})
	if err != nil {
		b.logg.Error(ctx, "responding with quantity modal", err)
	}
}

// onQuantitiesSubmitted defers the reply, runs the commit sequence and then
// always resolves the deferred response, success or not.
func (b *Bot) onQuantitiesSubmitted(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		b.logg.Error(ctx, "deferring modal response", err)
		return
	}

	result, err := b.pipeline.SubmitQuantities(ctx, pipeline.SubmitInput{
		ActorID:         actorID(i),
		OriginChannelID: i.ChannelID,
		Fields:          modalFields(i.ModalSubmitData()),
	})

	var content string
	switch {
	case err != nil:
		b.logg.Error(ctx, "movement commit failed", err)
		content = userMessage(err)
	case result.IsDegraded():
		content = fmt.Sprintf("✅ Registro de %s realizado, mas nem todas as confirmações foram enviadas.", result.Direction)
	default:
		content = fmt.Sprintf("✅ Registro de %s realizado com sucesso.", result.Direction)
	}

	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		b.logg.Error(ctx, "resolving deferred response", err)
	}
}

func (b *Bot) replyError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	content := userMessage(err)
	respondErr := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if respondErr != nil {
		// The interaction may already be acknowledged; try the followup edit.
		if _, editErr := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); editErr != nil {
			b.logg.Error(context.Background(), "delivering error reply", editErr)
		}
	}
}

func userMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return "❌ " + typed.UserMessage()
	}
	return "❌ " + pkgerrors.MetadataFor(pkgerrors.CodeInternal).UserMessage
}

func actorID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
