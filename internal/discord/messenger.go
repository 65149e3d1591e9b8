package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/fazendarp/stashbot/pkg/logger"
)

// resetFetchLimit bounds how far back the channel reset looks for bot
// messages, matching Discord's bulk-delete page size.
const resetFetchLimit = 50

// Messenger sends confirmations and resets registration channels through a
// live Discord session. It satisfies pipeline.Messenger.
type Messenger struct {
	session *discordgo.Session
	logg    *logger.Logger
}

// NewMessenger wraps a Discord session for the pipeline's channel side
// effects.
func NewMessenger(session *discordgo.Session, logg *logger.Logger) (*Messenger, error) {
	if session == nil {
		return nil, fmt.Errorf("discord session required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Messenger{session: session, logg: logg}, nil
}

// SendText posts a plain message to a channel.
func (m *Messenger) SendText(_ context.Context, channelID, content string) error {
	if _, err := m.session.ChannelMessageSend(channelID, content); err != nil {
		return fmt.Errorf("sending message to channel %s: %w", channelID, err)
	}
	return nil
}

// ResetChannel deletes the bot's recent messages in a registration channel
// and reposts the direction buttons. Deletion failures are logged and
// swallowed so a stale prompt never blocks the repost.
func (m *Messenger) ResetChannel(ctx context.Context, channelID string) error {
	m.deleteOwnMessages(ctx, channelID)
	return m.PostButtons(ctx, channelID)
}

// PostButtons sends the registration prompt with the two direction buttons.
func (m *Messenger) PostButtons(_ context.Context, channelID string) error {
	_, err := m.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    registrationPrompt,
		Components: directionButtons(),
	})
	if err != nil {
		return fmt.Errorf("posting buttons to channel %s: %w", channelID, err)
	}
	return nil
}

func (m *Messenger) deleteOwnMessages(ctx context.Context, channelID string) {
	messages, err := m.session.ChannelMessages(channelID, resetFetchLimit, "", "", "")
	if err != nil {
		m.logg.Warn(m.logg.WithChannelID(ctx, channelID), fmt.Sprintf("fetching messages for reset: %v", err))
		return
	}

	botID := ""
	if m.session.State != nil && m.session.State.User != nil {
		botID = m.session.State.User.ID
	}

	var ids []string
	for _, message := range messages {
		if message.Author != nil && message.Author.ID == botID {
			ids = append(ids, message.ID)
		}
	}

	var deleteErr error
	switch len(ids) {
	case 0:
		return
	case 1:
		deleteErr = m.session.ChannelMessageDelete(channelID, ids[0])
	default:
		deleteErr = m.session.ChannelMessagesBulkDelete(channelID, ids)
	}
	if deleteErr != nil {
		m.logg.Warn(m.logg.WithChannelID(ctx, channelID), fmt.Sprintf("deleting bot messages: %v", deleteErr))
	}
}
