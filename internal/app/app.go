package app

import (
	"os"
	"os/signal"
	"syscall"

	runtime "github.com/banzaicloud/logrus-runtime-formatter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// App holds attributes for the linictl application
type App struct {
	v *viper.Viper
	// Linictl configuration.
	Config *Configuration
	// TermCh is the channel to terminate the app based on a signal
	TermCh chan os.Signal
	// Logger is the app logger
	Logger *logrus.Logger
}

// New returns a new instance of the linictl app
func New(cfgFile, loglevel string) (*App, error) {
	app := &App{
		v:      viper.New(),
		Config: &Configuration{},
		TermCh: make(chan os.Signal, 1),
		Logger: logrus.New(),
	}

	if err := app.LoadConfiguration(cfgFile); err != nil {
		return nil, err
	}

	// flag overrides config file and env
	if loglevel != "" {
		app.Config.LogLevel = loglevel
	}

	// set log level, format
	switch app.Config.LogLevel {
	case LogLevelDebug:
		app.Logger.Level = logrus.DebugLevel
	case LogLevelTrace:
		app.Logger.Level = logrus.TraceLevel
	default:
		app.Logger.Level = logrus.InfoLevel
	}

	app.Logger.SetFormatter(
		&runtime.Formatter{ChildFormatter: &logrus.TextFormatter{FullTimestamp: true}},
	)

	// register for SIGINT, SIGTERM
	signal.Notify(app.TermCh, syscall.SIGINT, syscall.SIGTERM)

	return app, nil
}
