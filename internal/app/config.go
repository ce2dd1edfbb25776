package app

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/jeremywohl/flatten"
	"github.com/linistrate/linictl/internal/model"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

const (
	LogLevelInfo  = "info"
	LogLevelDebug = "debug"
	LogLevelTrace = "trace"

	// ConfigFileName is looked up under the state directory when no
	// --config flag is given.
	ConfigFileName = "config.yaml"

	defaultEndpoint    = "http://localhost:8000"
	defaultHTTPTimeout = 30 * time.Second
)

var (
	ErrConfig = errors.New("configuration error")
)

// Configuration holds application configuration read from a YAML file or
// set by env variables.
//
// nolint:govet // prefer readability over field alignment optimization for this case.
type Configuration struct {
	// LogLevel is the app verbose logging level.
	// one of - info, debug, trace
	LogLevel string `mapstructure:"log_level"`

	// Endpoint is the Linistrate API base URL.
	Endpoint string `mapstructure:"endpoint"`

	// StateDir is where the session record and the default config file
	// live, ~/.config/linistrate unless overridden.
	StateDir string `mapstructure:"state_dir"`

	// HTTPTimeout bounds each API request.
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`

	// RetryMax is the transport-level retry count for connection and 5xx
	// failures, zero unless configured.
	RetryMax int `mapstructure:"retry_max"`
}

// LoadConfiguration loads application configuration
//
// Reads in the cfgFile when available and overrides from environment variables.
func (a *App) LoadConfiguration(cfgFile string) error {
	a.v.SetConfigType("yaml")
	a.v.SetEnvPrefix(model.AppName)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	a.setDefaults()

	if cfgFile == "" {
		// fall back to the config file under the state dir, when present
		candidate := filepath.Join(a.v.GetString("state_dir"), ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			cfgFile = candidate
		}
	}

	if cfgFile != "" {
		fh, err := os.Open(cfgFile)
		if err != nil {
			return errors.Wrap(ErrConfig, err.Error())
		}
		defer fh.Close()

		if err = a.v.ReadConfig(fh); err != nil {
			return errors.Wrap(ErrConfig, "ReadConfig error: "+err.Error())
		}
	}

	if err := a.envBindVars(); err != nil {
		return errors.Wrap(ErrConfig, "env var bind error: "+err.Error())
	}

	if err := a.v.Unmarshal(a.Config); err != nil {
		return errors.Wrap(ErrConfig, "Unmarshal error: "+err.Error())
	}

	return a.Config.validate()
}

func (a *App) setDefaults() {
	a.v.SetDefault("log_level", LogLevelInfo)
	a.v.SetDefault("endpoint", defaultEndpoint)
	a.v.SetDefault("state_dir", defaultStateDir())
	a.v.SetDefault("http_timeout", defaultHTTPTimeout)
	a.v.SetDefault("retry_max", 0)
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "." + model.AppName
	}

	return filepath.Join(dir, model.AppName)
}

// envBindVars binds environment variables to the struct
// without a configuration file being unmarshalled,
// this is a workaround for a viper bug,
//
// This can be replaced by the solution in https://github.com/spf13/viper/pull/1429
// once that PR is merged.
func (a *App) envBindVars() error {
	envKeysMap := map[string]interface{}{}
	if err := mapstructure.Decode(a.Config, &envKeysMap); err != nil {
		return err
	}

	// Flatten nested conf map
	flat, err := flatten.Flatten(envKeysMap, "", flatten.DotStyle)
	if err != nil {
		return errors.Wrap(err, "Unable to flatten config")
	}

	for k := range flat {
		if err := a.v.BindEnv(k); err != nil {
			return errors.Wrap(ErrConfig, "env var bind error: "+err.Error())
		}
	}

	return nil
}

// validate accumulates every configuration problem instead of stopping at
// the first.
func (c *Configuration) validate() error {
	var rerr *multierror.Error

	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		rerr = multierror.Append(rerr, errors.Wrap(ErrConfig, "endpoint is not a valid absolute URL: "+c.Endpoint))
	}

	switch c.LogLevel {
	case LogLevelInfo, LogLevelDebug, LogLevelTrace:
	default:
		rerr = multierror.Append(rerr, errors.Wrap(ErrConfig, "log_level must be one of info, debug, trace: "+c.LogLevel))
	}

	if c.HTTPTimeout <= 0 {
		rerr = multierror.Append(rerr, errors.Wrap(ErrConfig, "http_timeout must be positive"))
	}

	if c.RetryMax < 0 {
		rerr = multierror.Append(rerr, errors.Wrap(ErrConfig, "retry_max cannot be negative"))
	}

	return rerr.ErrorOrNil()
}
