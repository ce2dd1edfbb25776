package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var cmdLogin = &cobra.Command{
	Use:         "login [identifier]",
	Short:       "Authenticate with the Linistrate backend using a username or email",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationAuth: annotationPublic},
	Run: func(cmd *cobra.Command, args []string) {
		identifier := ""
		if len(args) == 1 {
			identifier = args[0]
		}

		runLogin(cmd, identifier)
	},
}

func runLogin(cmd *cobra.Command, identifier string) {
	if identifier == "" {
		var err error

		identifier, err = promptLine("username or email: ")
		fatalOnErr(err)
	}

	password, err := promptPassword("password: ")
	fatalOnErr(err)

	user, err := api.Login(cmd.Context(), identifier, password)
	fatalOnErr(err)

	runtimeApp.Logger.WithField("user", user.Username).Info("logged in")
}

var (
	registerUsername string
	registerEmail    string
)

var cmdRegister = &cobra.Command{
	Use:         "register",
	Short:       "Create a new Linistrate account and log in",
	Annotations: map[string]string{annotationAuth: annotationPublic},
	Run: func(cmd *cobra.Command, _ []string) {
		runRegister(cmd)
	},
}

func runRegister(cmd *cobra.Command) {
	password, err := promptPassword("password: ")
	fatalOnErr(err)

	confirm, err := promptPassword("confirm password: ")
	fatalOnErr(err)

	if password != confirm {
		runtimeApp.Logger.Fatal("passwords do not match")
	}

	user, err := api.Register(cmd.Context(), registerUsername, registerEmail, password)
	fatalOnErr(err)

	runtimeApp.Logger.WithField("user", user.Username).Info("account created, logged in")
}

var cmdLogout = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	Run: func(_ *cobra.Command, _ []string) {
		fatalOnErr(api.Logout())
		runtimeApp.Logger.Info("logged out")
	},
}

var cmdWhoami = &cobra.Command{
	Use:   "whoami",
	Short: "Show the identity behind the stored session",
	Run: func(cmd *cobra.Command, _ []string) {
		// resolve the token server-side, the local record may be stale
		username, err := api.Me(cmd.Context())
		fatalOnErr(err)

		user := runtimeSession.Current()

		fmt.Printf("user: %s\nemail: %s\nid: %d\n", username, user.Email, user.ID)
	},
}

func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	password, err := term.ReadPassword(int(os.Stdin.Fd()))

	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", err
	}

	return string(password), nil
}

func init() {
	cmdRegister.PersistentFlags().StringVar(&registerUsername, "username", "", "account username")
	cmdRegister.PersistentFlags().StringVar(&registerEmail, "email", "", "account email address")

	for _, r := range []string{"username", "email"} {
		if err := cmdRegister.MarkPersistentFlagRequired(r); err != nil {
			log.Fatal(err)
		}
	}

	rootCmd.AddCommand(cmdLogin)
	rootCmd.AddCommand(cmdRegister)
	rootCmd.AddCommand(cmdLogout)
	rootCmd.AddCommand(cmdWhoami)
}
