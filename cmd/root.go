package cmd

import (
	"os"

	"github.com/linistrate/linictl/internal/app"
	"github.com/linistrate/linictl/internal/client"
	"github.com/linistrate/linictl/internal/session"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	// initialized by the persistent pre-run hook before any command runs
	runtimeApp     *app.App
	runtimeSession *session.Store
	api            *client.Client
)

// Commands carrying this annotation are reachable without a session, every
// other command requires one - the guard is declarative, not a per-command
// check.
const (
	annotationAuth   = "auth"
	annotationPublic = "public"
)

var rootCmd = &cobra.Command{
	Use:          "linictl",
	Short:        "linictl administers Linistrate assets, groups and remote command runs",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initRuntime(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "logging level - info, debug, trace")
}

// public reports whether the command may run without an authenticated
// session. The annotation is looked up through the parent chain so
// subcommands inherit it.
func public(cmd *cobra.Command) bool {
	if cmd == cmd.Root() {
		return true
	}

	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationAuth] == annotationPublic {
			return true
		}
	}

	switch cmd.Name() {
	case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}

	return false
}

func initRuntime(cmd *cobra.Command) error {
	linictl, err := app.New(cfgFile, logLevel)
	if err != nil {
		return err
	}

	storage, err := session.NewFileStorage(linictl.Config.StateDir)
	if err != nil {
		return err
	}

	sess := session.NewStore(storage)
	if err := sess.Restore(); err != nil {
		linictl.Logger.WithError(err).Warn("discarding unreadable session file")

		if err := sess.Clear(); err != nil {
			return err
		}
	}

	if !public(cmd) && !sess.Authenticated() {
		return errors.New("not logged in, run 'linictl login' first")
	}

	apiClient, err := client.New(
		linictl.Config.Endpoint,
		sess,
		linictl.Logger,
		client.WithTimeout(linictl.Config.HTTPTimeout),
		client.WithRetryMax(linictl.Config.RetryMax),
	)
	if err != nil {
		return err
	}

	runtimeApp = linictl
	runtimeSession = sess
	api = apiClient

	return nil
}

// fatalOnErr logs the error and exits. An expired session gets a re-login
// hint instead of the raw error.
func fatalOnErr(err error) {
	if err == nil {
		return
	}

	if errors.Is(err, client.ErrSessionExpired) {
		runtimeApp.Logger.Fatal("session expired, log in again with 'linictl login'")
	}

	runtimeApp.Logger.Fatal(err)
}
