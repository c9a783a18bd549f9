package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GTANeijasAcc/GTANBot/bot"
	"github.com/GTANeijasAcc/GTANBot/commands"
	"github.com/GTANeijasAcc/GTANBot/commands/custom"
	"github.com/GTANeijasAcc/GTANBot/config"
	"github.com/GTANeijasAcc/GTANBot/dashboard"
	"github.com/GTANeijasAcc/GTANBot/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	// Command modules register themselves
	_ "github.com/GTANeijasAcc/GTANBot/commands/help"
	_ "github.com/GTANeijasAcc/GTANBot/commands/media"
	_ "github.com/GTANeijasAcc/GTANBot/commands/moderation"
)

var logger = utils.GetLogger("main")

func main() {
	var configPath string
	var skipSync bool

	rootCmd := &cobra.Command{
		Use:   "gtanbot",
		Short: "GTANBot - moderation bot for the GTA Neijas discord",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, skipSync)
		},
		SilenceUsage: true,
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Optional YAML config file")
	rootCmd.Flags().BoolVar(&skipSync, "skip-command-sync", false, "Do not register slash commands on startup")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(configPath string, skipSync bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed loading config")
	}

	if err := utils.SetupLogger(cfg.Logger.Level, cfg.Logger.File); err != nil {
		logrus.WithError(err).Fatal("Failed setting up logger")
	}
	logs := utils.NewRecentLogsHook(200)
	logrus.AddHook(logs)

	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	b, err := bot.NewBot(ctx, cfg, logs)
	cancel()
	if err != nil {
		logger.WithError(err).Fatal("Failed creating bot")
	}

	store, err := custom.OpenStore(cfg.CommandsDB)
	if err != nil {
		logger.WithError(err).Fatal("Failed opening custom command store")
	}
	defer store.Close()

	customCommands := custom.NewManager(store)
	if n, err := customCommands.Load(); err != nil {
		logger.WithError(err).Error("Failed loading custom commands")
	} else {
		logger.Infof("Loaded %d custom commands", n)
	}

	b.Client.AddHandler(commands.HandleMessage(b))
	b.Client.AddHandler(commands.HandleInteraction(b))

	if err := b.Open(); err != nil {
		logger.WithError(err).Fatal("Failed connecting to discord")
	}
	defer b.Close()

	if !skipSync {
		if err := commands.RegisterAllSlashCommands(b.Client, b.Client.State.User.ID, cfg.GuildID); err != nil {
			logger.WithError(err).Error("Failed registering slash commands")
		} else {
			logger.Info("Successfully reloaded application (/) commands")
		}
	}

	b.Presence.Start()

	server := dashboard.NewServer(dashboard.Deps{
		Bot:      b,
		Presence: b.Presence,
		Commands: customCommands,
		Logs:     logs,
	})
	server.Start(cfg.DashboardAddr)

	logger.Info("Bot is now running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.Info("Shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed stopping dashboard")
	}

	return nil
}
