package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

type (
	Config struct {
		TelegramAPIToken string   `env:"TOKEN,required"`
		OwnerID          int64    `env:"OWNER_ID"`
		DefaultLanguage  string   `env:"LANG,default=en"`
		EnabledHandlers  []string `env:"HANDLERS,default=watchdog,admin,premium,menu"`
		LogLevel         int      `env:"LOG_LEVEL,default=4"`
		DotPath          string   `env:"DOT_PATH,default=~/.guardbot"`
		MetricsAddr      string   `env:"METRICS_ADDR,default=:2112"`
		Policy           Policy
		Spam             Spam
		Premium          Premium
	}

	// Policy holds the warn-escalation knobs. Defaults are the canonical
	// policy; deployments that want the stricter variants tune these.
	Policy struct {
		WarnLimit        int           `env:"POLICY_WARN_LIMIT,default=5"`
		BypassMatchCount int           `env:"POLICY_BYPASS_MATCHES,default=3"`
		MuteDuration     time.Duration `env:"POLICY_MUTE_DURATION,default=24h"`
	}

	// Spam holds the flood-window knobs. Entitled chats run the stricter
	// premium preset: a lower allowance and a longer mute.
	Spam struct {
		Window              time.Duration `env:"SPAM_WINDOW,default=5s"`
		MaxMessages         int           `env:"SPAM_MAX_MESSAGES,default=6"`
		MuteDuration        time.Duration `env:"SPAM_MUTE_DURATION,default=10m"`
		PremiumMaxMessages  int           `env:"SPAM_PREMIUM_MAX_MESSAGES,default=4"`
		PremiumMuteDuration time.Duration `env:"SPAM_PREMIUM_MUTE_DURATION,default=30m"`
	}

	Premium struct {
		DefaultGrantDays int `env:"PREMIUM_DEFAULT_GRANT_DAYS,default=30"`
	}
)

var (
	once         sync.Once
	globalConfig = &Config{}
	globalErr    error
)

func Load() (Config, error) {
	once.Do(func() {
		cfg := &Config{}
		envcfg := envconfig.Config{
			Lookuper: envconfig.PrefixLookuper("GB_", envconfig.OsLookuper()),
			Target:   cfg,
		}
		if err := envconfig.ProcessWith(context.Background(), &envcfg); err != nil {
			globalErr = fmt.Errorf("process env config: %w", err)
			return
		}
		log.Traceln("loaded config")
		globalConfig = cfg
	})
	return *globalConfig, globalErr
}

func Get() Config {
	cfg, err := Load()
	if err != nil {
		log.WithField("error", err.Error()).Error("cant load config")
	}
	return cfg
}
