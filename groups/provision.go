package groups

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nvidal/groupbot/discord"
)

// ErrCategoryNotFound - a staging category is missing from the guild.
var ErrCategoryNotFound = errors.New("staging category not found")

// ProvisionedGroup - identifiers of the resources created for a group.
type ProvisionedGroup struct {
	RoleID         string
	TextChannelID  string
	VoiceChannelID string
}

// Provisioner creates the role and channels for a confirmed group. Steps
// run in order; a failing step aborts the remaining ones and nothing
// already created is rolled back.
type Provisioner struct {
	client *discord.Client
	cfg    Config
	log    *slog.Logger
	color  func() int
}

// NewProvisioner builds a provisioner sharing the engine's config.
func NewProvisioner(client *discord.Client, cfg Config, log *slog.Logger) *Provisioner {
	return &Provisioner{
		client: client,
		cfg:    cfg,
		log:    log.With("component", "provisioner"),
		color:  randomColor,
	}
}

func randomColor() int {
	return rand.Intn(0xFFFFFF + 1)
}

// Provision creates a role named groupName, a text and a voice channel
// visible only to that role, and assigns the role to every participant.
func (p *Provisioner) Provision(ctx context.Context, guildID, groupName string, participantIDs []string) (ProvisionedGroup, error) {
	var group ProvisionedGroup

	role, err := p.client.CreateRole(ctx, guildID, groupName, p.color())
	if err != nil {
		return group, fmt.Errorf("create role: %w", err)
	}
	group.RoleID = role.ID

	channels, err := p.client.GuildChannels(ctx, guildID)
	if err != nil {
		return group, fmt.Errorf("list guild channels: %w", err)
	}
	textParent, err := categoryID(channels, p.cfg.TextCategoryName)
	if err != nil {
		return group, err
	}
	voiceParent, err := categoryID(channels, p.cfg.VoiceCategoryName)
	if err != nil {
		return group, err
	}

	overwrites := p.overwrites(ctx, guildID, role.ID)
	name := Slug(groupName)

	text, err := p.client.CreateChannel(ctx, guildID, name, discord.ChannelTypeText, textParent, overwrites)
	if err != nil {
		return group, fmt.Errorf("create text channel: %w", err)
	}
	group.TextChannelID = text.ID

	voice, err := p.client.CreateChannel(ctx, guildID, name, discord.ChannelTypeVoice, voiceParent, overwrites)
	if err != nil {
		return group, fmt.Errorf("create voice channel: %w", err)
	}
	group.VoiceChannelID = voice.ID

	p.assignRole(ctx, guildID, role.ID, participantIDs)
	return group, nil
}

// overwrites hides the channel from everyone except the new role and, when
// configured and present, the staff role. A missing staff role only logs:
// the role is an additive convenience, not a requirement.
func (p *Provisioner) overwrites(ctx context.Context, guildID, roleID string) []discord.PermissionOverwrite {
	view := strconv.Itoa(discord.PermissionViewChannel)
	out := []discord.PermissionOverwrite{
		// @everyone shares the guild's id
		{ID: guildID, Type: discord.OverwriteTypeRole, Deny: view},
		{ID: roleID, Type: discord.OverwriteTypeRole, Allow: view},
	}
	if p.cfg.StaffRoleName == "" {
		return out
	}
	roles, err := p.client.GuildRoles(ctx, guildID)
	if err != nil {
		p.log.Error("list roles for staff overwrite", "guild", guildID, "error", err)
		return out
	}
	for _, r := range roles {
		if r.Name == p.cfg.StaffRoleName {
			return append(out, discord.PermissionOverwrite{ID: r.ID, Type: discord.OverwriteTypeRole, Allow: view})
		}
	}
	p.log.Warn("staff role not found, channels created without it", "guild", guildID, "role", p.cfg.StaffRoleName)
	return out
}

// assignRole puts the role on every participant with parallel PUT calls.
// Individual failures are logged and skipped so one bad member does not
// strand the rest of the group.
func (p *Provisioner) assignRole(ctx context.Context, guildID, roleID string, participantIDs []string) {
	var g errgroup.Group
	for _, id := range dedupe(participantIDs) {
		id := id
		g.Go(func() error {
			if err := p.client.AssignRole(ctx, guildID, id, roleID); err != nil {
				p.log.Error("assign role", "guild", guildID, "user", id, "role", roleID, "error", err)
			}
			return nil
		})
	}
	g.Wait()
}

// categoryID resolves a parent category by exact name match.
func categoryID(channels []discord.Channel, name string) (string, error) {
	for _, c := range channels {
		if c.Type == discord.ChannelTypeCategory && c.Name == name {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("%q: %w", name, ErrCategoryNotFound)
}

// Slug normalizes a group name into a channel identifier: lower case with
// whitespace runs collapsed to single hyphens.
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
