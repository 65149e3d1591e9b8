package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Discord DiscordConfig
	Sheets  SheetsConfig
	Routes  RoutesConfig
	Session SessionConfig
	Catalog CatalogConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Routes.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env      string `envconfig:"STASHBOT_APP_ENV" default:"dev"`
	Port     string `envconfig:"STASHBOT_APP_PORT" default:"8080"`
	LogLevel string `envconfig:"STASHBOT_LOG_LEVEL" default:"info"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DiscordConfig struct {
	Token   string `envconfig:"STASHBOT_DISCORD_TOKEN" required:"true"`
	GuildID string `envconfig:"STASHBOT_GUILD_ID" required:"true"`
}

type SheetsConfig struct {
	SpreadsheetID   string        `envconfig:"STASHBOT_SPREADSHEET_ID" required:"true"`
	CredentialsFile string        `envconfig:"STASHBOT_SHEETS_CREDENTIALS_FILE"`
	CredentialsJSON string        `envconfig:"STASHBOT_SHEETS_CREDENTIALS_JSON"`
	CallTimeout     time.Duration `envconfig:"STASHBOT_SHEETS_CALL_TIMEOUT" default:"15s"`
	IdentityRange   string        `envconfig:"STASHBOT_IDENTITY_RANGE" default:"usuarios!A2:C"`
}

// RoutesConfig carries the channel ids that feed the routing table. The
// member partition is mandatory; the management partition is all-or-nothing.
type RoutesConfig struct {
	MemberRegistrationChannel string `envconfig:"STASHBOT_MEMBER_REGISTRATION_CHANNEL" required:"true"`
	MemberInChannel           string `envconfig:"STASHBOT_MEMBER_IN_CHANNEL" required:"true"`
	MemberOutChannel          string `envconfig:"STASHBOT_MEMBER_OUT_CHANNEL" required:"true"`

	ManagementRegistrationChannel string `envconfig:"STASHBOT_MANAGEMENT_REGISTRATION_CHANNEL"`
	ManagementInChannel           string `envconfig:"STASHBOT_MANAGEMENT_IN_CHANNEL"`
	ManagementOutChannel          string `envconfig:"STASHBOT_MANAGEMENT_OUT_CHANNEL"`
}

func (r RoutesConfig) validate() error {
	management := []string{
		r.ManagementRegistrationChannel,
		r.ManagementInChannel,
		r.ManagementOutChannel,
	}
	var set int
	for _, v := range management {
		if strings.TrimSpace(v) != "" {
			set++
		}
	}
	if set != 0 && set != len(management) {
		return fmt.Errorf("management partition channels must be configured together (registration, in, out)")
	}
	return nil
}

// HasManagement reports whether the management partition is configured.
func (r RoutesConfig) HasManagement() bool {
	return strings.TrimSpace(r.ManagementRegistrationChannel) != ""
}

type SessionConfig struct {
	PendingTTL time.Duration `envconfig:"STASHBOT_PENDING_TTL" default:"10m"`
}

type CatalogConfig struct {
	Path string `envconfig:"STASHBOT_CATALOG_PATH" default:"configs/catalog.json"`
}
