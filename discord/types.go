package discord

import "github.com/bwmarrin/discordgo"

// Channel types accepted by the channel-creation endpoint.
const (
	ChannelTypeText     = int(discordgo.ChannelTypeGuildText)
	ChannelTypeVoice    = int(discordgo.ChannelTypeGuildVoice)
	ChannelTypeCategory = int(discordgo.ChannelTypeGuildCategory)
)

// PermissionViewChannel - the "view channel" permission bit.
const PermissionViewChannel = discordgo.PermissionReadMessages

// Permission overwrite subject types.
const (
	OverwriteTypeRole   = 0
	OverwriteTypeMember = 1
)

// Message - Discord message object, trimmed to the fields the bot reads
type Message struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
}

// User - Discord user object
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Role - Discord guild role
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Channel - Discord guild channel
type Channel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     int    `json:"type"`
	ParentID string `json:"parent_id,omitempty"`
}

// PermissionOverwrite - per-channel rule granting or denying permission
// bits to a role or user. Bitfields travel as decimal strings on the wire.
type PermissionOverwrite struct {
	ID    string `json:"id"`
	Type  int    `json:"type"`
	Allow string `json:"allow,omitempty"`
	Deny  string `json:"deny,omitempty"`
}

type messageCreate struct {
	Content string `json:"content"`
}

type roleCreate struct {
	Name        string `json:"name"`
	Permissions string `json:"permissions"`
	Color       int    `json:"color"`
	Mentionable bool   `json:"mentionable"`
}

type channelCreate struct {
	Name                 string                `json:"name"`
	Type                 int                   `json:"type"`
	ParentID             string                `json:"parent_id,omitempty"`
	PermissionOverwrites []PermissionOverwrite `json:"permission_overwrites,omitempty"`
}
