package constants

const (
	Version        = `0.1.0`
	AppName        = `scriptura`
	ConfigFile     = `cfg`
	ConfigFileType = `yaml`
	ConfigDir      = `/.scriptura/`
	LogFile        = `scriptura.log`
	EnvPrefix      = `SCRIPTURA`

	DefaultAPIURL = `http://127.0.0.1:8000`
	DefaultTheme  = `dracula`
)
