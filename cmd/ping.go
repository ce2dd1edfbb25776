package cmd

import (
	"time"

	"github.com/jpillora/backoff"
	"github.com/spf13/cobra"
)

var (
	pingWait     bool
	pingAttempts int
)

var cmdPing = &cobra.Command{
	Use:         "ping",
	Short:       "Probe the backend liveness endpoint",
	Annotations: map[string]string{annotationAuth: annotationPublic},
	Run: func(cmd *cobra.Command, _ []string) {
		b := &backoff.Backoff{
			Min:    time.Second,
			Max:    10 * time.Second,
			Factor: 2,
			Jitter: true,
		}

		for attempt := 1; ; attempt++ {
			err := api.Ping(cmd.Context())
			if err == nil {
				runtimeApp.Logger.Info("backend is up")
				return
			}

			if !pingWait || attempt >= pingAttempts {
				fatalOnErr(err)
			}

			wait := b.Duration()
			runtimeApp.Logger.WithError(err).Warnf("backend not reachable, retrying in %s", wait)

			select {
			case <-time.After(wait):
			case <-runtimeApp.TermCh:
				return
			}
		}
	},
}

func init() {
	cmdPing.PersistentFlags().BoolVar(&pingWait, "wait", false, "keep probing until the backend responds")
	cmdPing.PersistentFlags().IntVar(&pingAttempts, "attempts", 10, "probe attempts before giving up with --wait")

	rootCmd.AddCommand(cmdPing)
}
