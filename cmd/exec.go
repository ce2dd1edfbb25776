package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type execFlags struct {
	ip      string
	command string
}

var execFlagSet = &execFlags{}

var cmdExec = &cobra.Command{
	Use:   "exec",
	Short: "Run a shell command on an asset and print its output",
	Run: func(cmd *cobra.Command, _ []string) {
		runExec(cmd.Context())
	},
}

func runExec(ctx context.Context) {
	// remote commands can run long, allow SIGINT to abandon the wait
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go cancelOnSignal(ctx, cancel, runtimeApp.TermCh, runtimeApp.Logger)

	result, err := api.RunCommand(ctx, execFlagSet.ip, execFlagSet.command)
	fatalOnErr(err)

	if result.Failed() {
		runtimeApp.Logger.WithField("ip", result.IP).Error("command failed: " + result.Error)
		return
	}

	for _, line := range result.Output {
		fmt.Println(line)
	}
}

// cancelOnSignal cancels the context when a termination signal arrives and
// returns once either the signal fires or the context ends, so the watcher
// goroutine does not outlive the command.
func cancelOnSignal(ctx context.Context, cancel context.CancelFunc, termCh chan os.Signal, logger *logrus.Logger) {
	select {
	case <-termCh:
		logger.Info("interrupted, abandoning command wait")
		cancel()
	case <-ctx.Done():
	}
}

func init() {
	cmdExec.PersistentFlags().StringVar(&execFlagSet.ip, "ip", "", "IP address of the target asset")
	cmdExec.PersistentFlags().StringVar(&execFlagSet.command, "command", "", "shell command to run")

	required := []string{"ip", "command"}
	for _, r := range required {
		if err := cmdExec.MarkPersistentFlagRequired(r); err != nil {
			log.Fatal(err)
		}
	}

	rootCmd.AddCommand(cmdExec)
}
