package config

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv        = "STASHBOT_APP_ENV"
	EnvAppPort       = "STASHBOT_APP_PORT"
	EnvLogLevel      = "STASHBOT_LOG_LEVEL"
	EnvDiscordToken  = "STASHBOT_DISCORD_TOKEN"
	EnvGuildID       = "STASHBOT_GUILD_ID"
	EnvSpreadsheetID = "STASHBOT_SPREADSHEET_ID"

	EnvMemberRegistrationChannel = "STASHBOT_MEMBER_REGISTRATION_CHANNEL"
	EnvMemberInChannel           = "STASHBOT_MEMBER_IN_CHANNEL"
	EnvMemberOutChannel          = "STASHBOT_MEMBER_OUT_CHANNEL"

	EnvManagementRegistrationChannel = "STASHBOT_MANAGEMENT_REGISTRATION_CHANNEL"
	EnvManagementInChannel           = "STASHBOT_MANAGEMENT_IN_CHANNEL"
	EnvManagementOutChannel          = "STASHBOT_MANAGEMENT_OUT_CHANNEL"

	EnvPendingTTL  = "STASHBOT_PENDING_TTL"
	EnvCatalogPath = "STASHBOT_CATALOG_PATH"
)
