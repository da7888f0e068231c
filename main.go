package main

import (
	"context"
	"os"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iamwavecut/guardbot/internal/bot"
	"github.com/iamwavecut/guardbot/internal/config"
	"github.com/iamwavecut/guardbot/internal/db/sqlite"
	"github.com/iamwavecut/guardbot/internal/event"
	"github.com/iamwavecut/guardbot/internal/handlers"
	"github.com/iamwavecut/guardbot/internal/infra"
	"github.com/iamwavecut/guardbot/internal/moderation"
	"github.com/iamwavecut/guardbot/internal/observability"
	"github.com/iamwavecut/guardbot/resources"
)

func main() {
	cfg := config.Get()
	log.SetFormatter(&config.GbFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.Level(cfg.LogLevel))

	observability.Init()

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()
	defer event.RunWorker()()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return observability.ListenAndServe(gctx, cfg.MetricsAddr)
	})

	infra.GoRecoverable(-1, "process_updates", func() {
		defer cancelFunc()

		botAPI, err := api.NewBotAPI(cfg.TelegramAPIToken)
		if err != nil {
			log.WithError(err).Errorln("cant initialize bot api")
			time.Sleep(1 * time.Second)
			log.Fatalln("exiting")
		}
		if log.Level(cfg.LogLevel) == log.TraceLevel {
			botAPI.Debug = true
		}
		defer botAPI.StopReceivingUpdates()

		dbClient, err := sqlite.NewSQLiteClient(infra.GetWorkDir(), "guardbot.db")
		if err != nil {
			log.WithError(err).Fatalln("cant initialize storage")
		}
		defer dbClient.Close()

		gate := moderation.NewEntitlementGate(dbClient, time.Now)
		terms := moderation.NewTermStore(dbClient, gate, loadTermList("terms/default.txt"), loadTermList("terms/premium.txt"))
		warns := moderation.NewWarnLedger(dbClient, cfg.Policy)
		spam := moderation.NewSpamDetector(cfg.Spam, time.Now)
		enforcer := moderation.NewEnforcer(cfg.Policy, terms, gate, warns, spam)

		for name, load := range map[string]func(context.Context) error{
			"terms":        terms.Load,
			"entitlements": gate.Load,
			"warns":        warns.Load,
		} {
			// each state loads independently, one failing never blocks
			// the others
			if err := load(ctx); err != nil {
				log.WithError(err).Errorf("cant load %s, starting empty", name)
			}
		}

		service := bot.NewService(botAPI, dbClient, enforcer, terms, gate, warns, bot.NewRoleResolver(botAPI))

		bot.RegisterUpdateHandler("watchdog", handlers.NewWatchdog(service))
		bot.RegisterUpdateHandler("admin", handlers.NewAdmin(service))
		bot.RegisterUpdateHandler("premium", handlers.NewPremium(service))
		bot.RegisterUpdateHandler("menu", handlers.NewMenu(service))

		updateConfig := api.NewUpdate(0)
		updateConfig.Timeout = 60
		updateProcessor := bot.NewUpdateProcessor(service)

		updateChan, errorChan := bot.GetUpdatesChans(ctx, botAPI, updateConfig)

		for {
			select {
			case err := <-errorChan:
				log.WithError(err).Fatalln("bot api get updates error")
			case update := <-updateChan:
				if err := updateProcessor.Process(ctx, &update); err != nil {
					log.WithError(err).Errorln("cant process update")
				}
			case <-ctx.Done():
				log.WithError(ctx.Err()).Errorln("no more updates")
				return
			}
		}
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Errorln("metrics server failed")
	}
	os.Exit(0)
}

func loadTermList(path string) []string {
	raw, err := resources.FS.ReadFile(path)
	if err != nil {
		log.WithError(err).Fatalf("cant read term list %s", path)
	}
	return moderation.ParseTermList(raw)
}
