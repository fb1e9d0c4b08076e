package groups

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/nvidal/groupbot/database"
)

// tick processes a snapshot of the pending confirmations. Entries are
// checked concurrently with bounded parallelism; a failing or slow entry
// never blocks the rest of the tick.
func (e *Engine) tick(ctx context.Context) {
	pending, err := e.store.ListPending()
	if err != nil {
		e.log.Error("list pending confirmations", "error", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(e.cfg.PollWorkers)
	for _, pc := range pending {
		pc := pc
		g.Go(func() error {
			e.check(ctx, pc)
			return nil
		})
	}
	g.Wait()
}

// check advances one pending confirmation: expiry first, then the
// completion predicate against the current reactor set.
func (e *Engine) check(ctx context.Context, pc database.PendingConfirmation) {
	log := e.log.With("guild", pc.GuildID, "message", pc.MessageID, "group", pc.GroupName)

	if pc.Expired(e.now()) {
		if err := e.store.Remove(pc.MessageID); err != nil {
			log.Error("remove expired confirmation", "error", err)
			return
		}
		notice := fmt.Sprintf("The group request for %q expired before everyone confirmed.", pc.GroupName)
		if _, err := e.client.SendMessage(ctx, pc.ChannelID, notice); err != nil {
			log.Error("send expiry notice", "error", err)
		}
		log.Info("confirmation expired")
		return
	}

	reactors, err := e.client.MessageReactors(ctx, pc.ChannelID, pc.MessageID, e.cfg.ConfirmEmoji)
	if err != nil {
		log.Error("fetch reactors", "error", err)
		return
	}
	confirmed := make(map[string]bool, len(reactors))
	for _, u := range reactors {
		confirmed[u.ID] = true
	}
	for _, id := range pc.RequiredUserIDs {
		if !confirmed[id] {
			return
		}
	}

	// Remove before provisioning so completion fires exactly once even if
	// provisioning fails; the poller never retries a confirmed group.
	if err := e.store.Remove(pc.MessageID); err != nil {
		log.Error("remove confirmed entry", "error", err)
		return
	}
	log.Info("group confirmed")

	closed := fmt.Sprintf("Group creation request for %q\n\nConfirmed by every invitee %s", pc.GroupName, e.cfg.ConfirmEmoji)
	if err := e.client.EditMessage(ctx, pc.ChannelID, pc.MessageID, closed); err != nil {
		log.Error("edit confirmation message", "error", err)
	}

	participants := dedupe(append(append([]string(nil), pc.RequiredUserIDs...), pc.CreatorID))
	group, err := e.prov.Provision(ctx, pc.GuildID, pc.GroupName, participants)
	if err != nil {
		log.Error("provision group", "error", err)
		return
	}
	log.Info("group provisioned", "role", group.RoleID, "text", group.TextChannelID, "voice", group.VoiceChannelID)

	success := fmt.Sprintf("The group %q has been created! Say hi in <#%s>.", pc.GroupName, group.TextChannelID)
	if _, err := e.client.SendMessage(ctx, pc.ChannelID, success); err != nil {
		log.Error("send success notice", "error", err)
	}
}
