// Package groups implements the group formation workflow: it posts
// confirmation requests, polls reactions until every invitee has
// confirmed, and then provisions a role plus text and voice channels
// scoped to the new group.
package groups

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nvidal/groupbot/database"
	"github.com/nvidal/groupbot/discord"
)

// Config controls the confirmation workflow.
type Config struct {
	// ConfirmEmoji is the reaction invitees answer with.
	ConfirmEmoji string
	// PollInterval is the poller tick. ConfirmationTTL expires requests
	// that never complete; zero disables expiry.
	PollInterval    time.Duration
	ConfirmationTTL time.Duration
	// PollWorkers bounds how many pending entries one tick checks at once.
	PollWorkers int

	TextCategoryName  string
	VoiceCategoryName string
	StaffRoleName     string
}

// Engine is the entry point into the workflow and the owner of the
// confirmation poller.
type Engine struct {
	client    *discord.Client
	store     database.Store
	prov      *Provisioner
	cfg       Config
	log       *slog.Logger
	scheduler *Scheduler
	now       func() time.Time
}

// New wires an engine. Zero config fields fall back to workable defaults.
func New(client *discord.Client, store database.Store, cfg Config, log *slog.Logger) *Engine {
	if cfg.ConfirmEmoji == "" {
		cfg.ConfirmEmoji = "✅"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 40 * time.Second
	}
	if cfg.PollWorkers <= 0 {
		cfg.PollWorkers = 4
	}
	e := &Engine{
		client: client,
		store:  store,
		prov:   NewProvisioner(client, cfg, log),
		cfg:    cfg,
		log:    log.With("component", "groups"),
		now:    time.Now,
	}
	e.scheduler = NewScheduler(cfg.PollInterval, e.tick)
	return e
}

// Start begins polling pending confirmations. Entries already in the store
// (for example from before a restart) are picked up on the first tick.
func (e *Engine) Start(ctx context.Context) {
	e.log.Info("watching confirmations", "interval", e.cfg.PollInterval)
	e.scheduler.Start(ctx)
}

// Stop halts the poller, waiting for an in-flight tick.
func (e *Engine) Stop() {
	e.scheduler.Stop()
	e.log.Info("stopped watching confirmations")
}

// RequestGroupConfirmation posts a confirmation message to channelID,
// seeds the bot's own confirmation reaction and records the request for
// the poller. The creator does not confirm; they are added to the group
// role once every invitee has reacted.
func (e *Engine) RequestGroupConfirmation(ctx context.Context, channelID, guildID, groupName string, requiredUserIDs []string, creatorID string) (*discord.Message, error) {
	if strings.TrimSpace(groupName) == "" {
		return nil, errors.New("group name must not be empty")
	}
	required := dedupe(requiredUserIDs)
	if len(required) == 0 {
		return nil, errors.New("at least one invitee is required")
	}
	for _, id := range required {
		if id == creatorID {
			return nil, errors.New("creator cannot be an invitee of their own group")
		}
	}

	msg, err := e.client.SendMessage(ctx, channelID, e.confirmationText(groupName, creatorID, required))
	if err != nil {
		return nil, fmt.Errorf("send confirmation message: %w", err)
	}
	if err := e.client.AddOwnReaction(ctx, channelID, msg.ID, e.cfg.ConfirmEmoji); err != nil {
		return nil, fmt.Errorf("seed confirmation reaction: %w", err)
	}

	pc := database.PendingConfirmation{
		MessageID:       msg.ID,
		ChannelID:       channelID,
		GuildID:         guildID,
		GroupName:       groupName,
		RequiredUserIDs: required,
		CreatorID:       creatorID,
		CreatedAt:       e.now(),
	}
	if e.cfg.ConfirmationTTL > 0 {
		pc.ExpiresAt = pc.CreatedAt.Add(e.cfg.ConfirmationTTL)
	}
	if err := e.store.Add(pc); err != nil {
		return nil, fmt.Errorf("track confirmation: %w", err)
	}
	e.log.Info("confirmation requested", "guild", guildID, "message", msg.ID, "group", groupName, "invitees", len(required))
	return msg, nil
}

func (e *Engine) confirmationText(groupName, creatorID string, required []string) string {
	mentions := make([]string, len(required))
	for i, id := range required {
		mentions[i] = "<@" + id + ">"
	}
	return fmt.Sprintf(
		"Group creation request for %q\n\nCreator: <@%s>\nInvited: %s\n\nReact with %s to confirm you are joining the group.",
		groupName, creatorID, strings.Join(mentions, ", "), e.cfg.ConfirmEmoji,
	)
}

// dedupe drops empty and repeated ids, keeping first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
