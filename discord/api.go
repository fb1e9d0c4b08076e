package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// SendMessage posts content to a channel and returns the created message.
func (c *Client) SendMessage(ctx context.Context, channelID, content string) (*Message, error) {
	data, err := c.Request(ctx, http.MethodPost, fmt.Sprintf("channels/%s/messages", channelID), messageCreate{Content: content})
	if err != nil {
		return nil, err
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return &msg, nil
}

// EditMessage replaces the content of an existing message.
func (c *Client) EditMessage(ctx context.Context, channelID, messageID, content string) error {
	_, err := c.Request(ctx, http.MethodPatch, fmt.Sprintf("channels/%s/messages/%s", channelID, messageID), messageCreate{Content: content})
	return err
}

// AddOwnReaction attaches the bot's own reaction to a message. Discord
// usually answers 204 here; any 2xx counts as success.
func (c *Client) AddOwnReaction(ctx context.Context, channelID, messageID, emoji string) error {
	endpoint := fmt.Sprintf("channels/%s/messages/%s/reactions/%s/@me", channelID, messageID, url.PathEscape(emoji))
	_, err := c.Request(ctx, http.MethodPut, endpoint, nil)
	return err
}

// MessageReactors lists the users who reacted to a message with emoji.
func (c *Client) MessageReactors(ctx context.Context, channelID, messageID, emoji string) ([]User, error) {
	endpoint := fmt.Sprintf("channels/%s/messages/%s/reactions/%s", channelID, messageID, url.PathEscape(emoji))
	data, err := c.Request(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode reactors: %w", err)
	}
	return users, nil
}

// GuildChannels lists every channel in a guild, categories included.
func (c *Client) GuildChannels(ctx context.Context, guildID string) ([]Channel, error) {
	data, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("guilds/%s/channels", guildID), nil)
	if err != nil {
		return nil, err
	}
	var channels []Channel
	if err := json.Unmarshal(data, &channels); err != nil {
		return nil, fmt.Errorf("decode channels: %w", err)
	}
	return channels, nil
}

// GuildRoles lists every role in a guild.
func (c *Client) GuildRoles(ctx context.Context, guildID string) ([]Role, error) {
	data, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("guilds/%s/roles", guildID), nil)
	if err != nil {
		return nil, err
	}
	var roles []Role
	if err := json.Unmarshal(data, &roles); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	return roles, nil
}

// CreateRole creates a mentionable role with no elevated permissions.
func (c *Client) CreateRole(ctx context.Context, guildID, name string, color int) (*Role, error) {
	body := roleCreate{Name: name, Permissions: "0", Color: color, Mentionable: true}
	data, err := c.Request(ctx, http.MethodPost, fmt.Sprintf("guilds/%s/roles", guildID), body)
	if err != nil {
		return nil, err
	}
	var role Role
	if err := json.Unmarshal(data, &role); err != nil {
		return nil, fmt.Errorf("decode role: %w", err)
	}
	return &role, nil
}

// CreateChannel creates a channel under the given parent category with the
// given permission overwrites.
func (c *Client) CreateChannel(ctx context.Context, guildID, name string, chType int, parentID string, overwrites []PermissionOverwrite) (*Channel, error) {
	body := channelCreate{Name: name, Type: chType, ParentID: parentID, PermissionOverwrites: overwrites}
	data, err := c.Request(ctx, http.MethodPost, fmt.Sprintf("guilds/%s/channels", guildID), body)
	if err != nil {
		return nil, err
	}
	var channel Channel
	if err := json.Unmarshal(data, &channel); err != nil {
		return nil, fmt.Errorf("decode channel: %w", err)
	}
	return &channel, nil
}

// AssignRole puts a role on a guild member.
func (c *Client) AssignRole(ctx context.Context, guildID, userID, roleID string) error {
	_, err := c.Request(ctx, http.MethodPut, fmt.Sprintf("guilds/%s/members/%s/roles/%s", guildID, userID, roleID), nil)
	return err
}
