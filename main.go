package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Necroforger/dgrouter/exrouter"
	"github.com/bwmarrin/discordgo"

	"github.com/nvidal/groupbot/config"
	"github.com/nvidal/groupbot/database"
	"github.com/nvidal/groupbot/discord"
	"github.com/nvidal/groupbot/groups"
	"github.com/nvidal/groupbot/handlers"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	store, err := database.OpenBolt(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	client := discord.NewClient(cfg.APIBase, cfg.Token, cfg.RequestTimeout, log)
	engine := groups.New(client, store, groups.Config{
		ConfirmEmoji:      config.ConfirmEmoji,
		PollInterval:      cfg.PollInterval,
		ConfirmationTTL:   cfg.ConfirmationTTL,
		PollWorkers:       cfg.PollWorkers,
		TextCategoryName:  cfg.TextCategoryName,
		VoiceCategoryName: cfg.VoiceCategoryName,
		StaffRoleName:     cfg.StaffRoleName,
	}, log)

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		log.Error("create session", "error", err)
		os.Exit(1)
	}

	router := exrouter.New()
	group := handlers.Group{Engine: engine, Log: log}
	router.On("group", group.Create).Desc("Request a new group: group <name> @user...")
	router.On("ping", handlers.Ping).Desc("Liveness check")

	session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		router.FindAndExecute(s, cfg.Prefix, s.State.User.ID, m.Message)
	})

	if err := session.Open(); err != nil {
		log.Error("open gateway session", "error", err)
		os.Exit(1)
	}
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine.Start(ctx)
	defer engine.Stop()

	log.Info("groupbot running", "prefix", cfg.Prefix)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")
}
