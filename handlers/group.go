package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Necroforger/dgrouter/exrouter"

	"github.com/nvidal/groupbot/groups"
)

// requestTimeout bounds the whole confirmation-request call chain; each
// underlying API call has its own shorter timeout.
const requestTimeout = time.Minute

// Group - command handlers for the group formation workflow
type Group struct {
	Engine *groups.Engine
	Log    *slog.Logger
}

// Create - handle "group <name> @user..." and start a confirmation request
func (h Group) Create(ctx *exrouter.Context) {
	// Delete the invoking message
	ctx.Ses.ChannelMessageDelete(ctx.Msg.ChannelID, ctx.Msg.ID)

	name := ctx.Args.Get(1)
	if name == "" {
		replyDel(ctx, "Make sure the group name is the first argument after this command.", 15)
		return
	}
	if len(ctx.Msg.Mentions) == 0 {
		replyDel(ctx, "Mention every user you want to invite to the group.", 15)
		return
	}

	invited := make([]string, 0, len(ctx.Msg.Mentions))
	for _, u := range ctx.Msg.Mentions {
		if u.ID == ctx.Msg.Author.ID {
			replyDel(ctx, "You cannot invite yourself to your own group.", 15)
			return
		}
		invited = append(invited, u.ID)
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	_, err := h.Engine.RequestGroupConfirmation(reqCtx, ctx.Msg.ChannelID, ctx.Msg.GuildID, name, invited, ctx.Msg.Author.ID)
	if err != nil {
		h.Log.Error("group confirmation request", "guild", ctx.Msg.GuildID, "error", err)
		replyDel(ctx, fmt.Sprintf("Failed to start the group request.\n```%v```", err), 15)
		return
	}
}

// Ping - liveness check
func Ping(ctx *exrouter.Context) {
	ctx.Reply("pong")
}

func replyDel(ctx *exrouter.Context, msg string, timer time.Duration) error {
	newMsg, err := ctx.Reply(msg)
	if err != nil {
		return err
	}
	go func() {
		time.Sleep(time.Second * timer)
		ctx.Ses.ChannelMessageDelete(ctx.Msg.ChannelID, newMsg.ID)
	}()
	return nil
}
