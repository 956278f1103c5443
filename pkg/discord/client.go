// Playlist Bridge - pushes city playlists into Discord channels
// License: MIT
//
// Copyright (c) 2026 Playlist Bridge contributors

package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/citytrip/playlistbridge/pkg/interactions"
	"github.com/citytrip/playlistbridge/pkg/logger"
	"github.com/citytrip/playlistbridge/pkg/playlist"
	"github.com/citytrip/playlistbridge/pkg/render"
	"github.com/citytrip/playlistbridge/pkg/tags"
)

var (
	// ErrNotReady means the gateway session is not connected yet. Callers
	// should retry later; the bridge does not queue.
	ErrNotReady = errors.New("discord bot not ready")
	// ErrChannelNotFound means the destination channel does not exist or
	// the bot cannot see it.
	ErrChannelNotFound = errors.New("destination channel not found")
	// ErrUnsupportedChannelType means the destination is neither a text
	// channel nor a forum.
	ErrUnsupportedChannelType = errors.New("unsupported destination channel type")
)

// interactionAlreadyAcked is Discord error 40060, returned when an
// interaction is answered twice. Second answers are suppressed, not retried.
const interactionAlreadyAcked = 40060

// PublishResult reports how a post was delivered.
type PublishResult struct {
	Mode      string // "forum" or "message"
	Tag       string // applied forum tag name, if any
	MessageID string
	ThreadID  string
}

// ChannelInfo is a diagnostic snapshot of a destination channel.
type ChannelInfo struct {
	ID   string
	Name string
	Type discordgo.ChannelType
}

// Client wraps a discordgo session as the bridge's chat capability: publish
// rendered posts and answer button interactions.
type Client struct {
	session  *discordgo.Session
	resolver *interactions.Resolver

	mu        sync.Mutex
	running   bool
	botUserID string
}

func NewClient(token string, resolver *interactions.Resolver) (*Client, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	return &Client{
		session:  session,
		resolver: resolver,
	}, nil
}

func (c *Client) Start(ctx context.Context) error {
	logger.InfoC("discord", "Starting Discord bot")

	botUser, err := c.session.User("@me")
	if err != nil {
		return fmt.Errorf("failed to get bot user: %w", err)
	}

	c.session.AddHandler(c.handleInteraction)

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}

	c.mu.Lock()
	c.running = true
	c.botUserID = botUser.ID
	c.mu.Unlock()

	logger.InfoCF("discord", "Discord bot connected", map[string]any{
		"username": botUser.Username,
		"user_id":  botUser.ID,
	})
	return nil
}

func (c *Client) Stop(ctx context.Context) error {
	logger.InfoC("discord", "Stopping Discord bot")

	c.mu.Lock()
	c.running = false
	c.mu.Unlock()

	if err := c.session.Close(); err != nil {
		return fmt.Errorf("failed to close discord session: %w", err)
	}
	return nil
}

// Ready reports whether the gateway session is connected.
func (c *Client) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Publish delivers a rendered post to the channel. Forum channels get a
// thread with the best-matching tag applied; text and announcement channels
// get a plain message. The payload is consulted only for tag selection.
func (c *Client) Publish(ctx context.Context, channelID string, post *render.Post, p playlist.Payload) (*PublishResult, error) {
	if !c.Ready() {
		return nil, ErrNotReady
	}

	channel, err := c.fetchChannel(channelID)
	if err != nil {
		return nil, err
	}

	msg := &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{post.Embed},
		Components: post.Components,
	}

	switch channel.Type {
	case discordgo.ChannelTypeGuildForum:
		return c.publishThread(channel, post, p, msg)
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		sent, err := c.session.ChannelMessageSendComplex(channelID, msg)
		if err != nil {
			return nil, fmt.Errorf("failed to send to channel %s: %w", channelID, err)
		}
		return &PublishResult{Mode: "message", MessageID: sent.ID}, nil
	default:
		return nil, fmt.Errorf("%w: channel %s has type %d", ErrUnsupportedChannelType, channelID, channel.Type)
	}
}

func (c *Client) publishThread(channel *discordgo.Channel, post *render.Post, p playlist.Payload, msg *discordgo.MessageSend) (*PublishResult, error) {
	candidates := make([]tags.Tag, 0, len(channel.AvailableTags))
	for _, t := range channel.AvailableTags {
		candidates = append(candidates, tags.Tag{ID: t.ID, Name: t.Name})
	}

	start := &discordgo.ThreadStart{Name: post.Title}
	tagName := ""
	if tag := tags.Select(candidates, p.TravelType, p.City, p.Title, p.Description); tag != nil {
		start.AppliedTags = []string{tag.ID}
		tagName = tag.Name
	}

	thread, err := c.session.ForumThreadStartComplex(channel.ID, start, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to create forum thread in %s: %w", channel.ID, err)
	}

	logger.InfoCF("discord", "Forum thread created", map[string]any{
		"channel_id": channel.ID,
		"thread_id":  thread.ID,
		"tag":        tagName,
	})
	return &PublishResult{Mode: "forum", Tag: tagName, ThreadID: thread.ID}, nil
}

// ChannelInfo fetches a channel for the admin diagnostics endpoint.
func (c *Client) ChannelInfo(channelID string) (*ChannelInfo, error) {
	if !c.Ready() {
		return nil, ErrNotReady
	}
	channel, err := c.fetchChannel(channelID)
	if err != nil {
		return nil, err
	}
	return &ChannelInfo{ID: channel.ID, Name: channel.Name, Type: channel.Type}, nil
}

func (c *Client) fetchChannel(channelID string) (*discordgo.Channel, error) {
	if channel, err := c.session.State.Channel(channelID); err == nil {
		return channel, nil
	}
	channel, err := c.session.Channel(channelID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}
	return channel, nil
}

func (c *Client) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	view := c.resolver.Resolve(customID)

	logger.DebugCF("discord", "Resolving interaction", map[string]any{
		"custom_id": customID,
	})

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: view.Content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err == nil {
		return
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == interactionAlreadyAcked {
		logger.DebugCF("discord", "Interaction already acknowledged", map[string]any{
			"custom_id": customID,
		})
		return
	}

	// Best effort only: one interaction's failure must never take down the
	// handler loop.
	logger.ErrorCF("discord", "Failed to answer interaction", map[string]any{
		"custom_id": customID,
		"error":     err.Error(),
	})
}
