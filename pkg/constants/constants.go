package constants

const (
	AppName = "vitum"

	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "VITUM"

	DefaultTimezone    = "America/Sao_Paulo"
	DefaultPhoneRegion = "BR"
)
