package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// BillingSettings are operator-tunable billing knobs, reloadable at
// runtime from billing.yml without a restart.
type BillingSettings struct {
	TrialDays       int    `mapstructure:"trialDays"`
	GraceDays       int    `mapstructure:"graceDays"`
	DefaultCurrency string `mapstructure:"defaultCurrency"`
}

func DefaultBillingSettings() BillingSettings {
	return BillingSettings{
		TrialDays:       14,
		GraceDays:       3,
		DefaultCurrency: "USD",
	}
}

type BillingSettingsHolder struct {
	current atomic.Value // holds BillingSettings
}

func NewBillingSettingsHolder() (*BillingSettingsHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/schoolms/config")
	v.AddConfigPath("/etc/schoolms")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SCHOOLMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultBillingSettings()
		v.SetDefault("billing.trialDays", defaults.TrialDays)
		v.SetDefault("billing.graceDays", defaults.GraceDays)
		v.SetDefault("billing.defaultCurrency", defaults.DefaultCurrency)
	}

	var settings BillingSettings
	if err := v.UnmarshalKey("billing", &settings); err != nil {
		return nil, err
	}
	if err := validateBillingSettings(settings); err != nil {
		return nil, err
	}

	holder := &BillingSettingsHolder{}
	holder.current.Store(settings)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingSettings
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Printf("[billing-settings] reload failed: %v", err)
			return
		}
		if err := validateBillingSettings(updated); err != nil {
			log.Printf("[billing-settings] invalid settings ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[billing-settings] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *BillingSettingsHolder) Get() BillingSettings {
	return h.current.Load().(BillingSettings)
}

func validateBillingSettings(s BillingSettings) error {
	if s.TrialDays < 0 {
		return errors.New("billing.trialDays must not be negative")
	}
	if s.GraceDays < 0 {
		return errors.New("billing.graceDays must not be negative")
	}
	if len(strings.TrimSpace(s.DefaultCurrency)) != 3 {
		return errors.New("billing.defaultCurrency must be a 3-letter code")
	}
	return nil
}
