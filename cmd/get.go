package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

var cmdGet = &cobra.Command{
	Use:   "get",
	Short: "get resources [assets|groups|technologies|blogs|executions|users]",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var outputFormat string

// render writes the fetched resource in the requested output format. The
// table func receives a tabwriter and is only invoked for table output.
func render(out interface{}, table func(w io.Writer)) {
	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(out, "", "  ")
		fatalOnErr(err)
		fmt.Println(string(data))
	case "dump":
		spew.Dump(out)
	default:
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		table(w)
		_ = w.Flush()
	}
}

var cmdGetAssets = &cobra.Command{
	Use:   "assets",
	Short: "List the assets owned by the current user",
	Run: func(cmd *cobra.Command, _ []string) {
		assets, err := api.Assets(cmd.Context())
		fatalOnErr(err)

		assets.SortByGroup()

		render(assets, func(w io.Writer) {
			fmt.Fprintln(w, "ID\tNAME\tIP\tTECHNOLOGY\tUSERNAME\tGROUP\tSTATUS")
			for i := range assets {
				a := &assets[i]
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
					a.ID, a.Name, a.IP, a.Technology, a.Username, a.Group.Name, a.Status())
			}
		})
	},
}

var cmdGetGroups = &cobra.Command{
	Use:   "groups",
	Short: "List asset groups",
	Run: func(cmd *cobra.Command, _ []string) {
		groups, err := api.Groups(cmd.Context())
		fatalOnErr(err)

		render(groups, func(w io.Writer) {
			fmt.Fprintln(w, "NAME\tCOLOR")
			for _, g := range groups {
				fmt.Fprintf(w, "%s\t%s\n", g.Name, g.Color)
			}
		})
	},
}

var cmdGetTechnologies = &cobra.Command{
	Use:   "technologies",
	Short: "List the technology reference vocabulary",
	Run: func(cmd *cobra.Command, _ []string) {
		technologies, err := api.Technologies(cmd.Context())
		fatalOnErr(err)

		render(technologies, func(w io.Writer) {
			fmt.Fprintln(w, "ID\tNAME")
			for _, t := range technologies {
				fmt.Fprintf(w, "%d\t%s\n", t.ID, t.Name)
			}
		})
	},
}

var cmdGetBlogs = &cobra.Command{
	Use:   "blogs",
	Short: "List blog entries",
	Run: func(cmd *cobra.Command, _ []string) {
		blogs, err := api.Blogs(cmd.Context())
		fatalOnErr(err)

		render(blogs, func(w io.Writer) {
			fmt.Fprintln(w, "ID\tTITLE\tCREATED")
			for _, b := range blogs {
				fmt.Fprintf(w, "%d\t%s\t%s\n", b.ID, b.Title, b.CreatedAt.Format(time.RFC3339))
			}
		})
	},
}

var cmdGetExecutions = &cobra.Command{
	Use:   "executions",
	Short: "List the remote command execution history",
	Run: func(cmd *cobra.Command, _ []string) {
		executions, err := api.Executions(cmd.Context())
		fatalOnErr(err)

		render(executions, func(w io.Writer) {
			fmt.Fprintln(w, "ID\tASSET\tIP\tCOMMAND\tSTATUS\tDURATION\tCREATED")
			for _, e := range executions {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
					e.ID, e.Asset, e.AssetIP, e.Command, e.Status, e.Duration, e.CreatedAt.Format(time.RFC3339))
			}
		})
	},
}

var cmdGetUsers = &cobra.Command{
	Use:   "users",
	Short: "List usernames known to the backend",
	Run: func(cmd *cobra.Command, _ []string) {
		users, err := api.Users(cmd.Context())
		fatalOnErr(err)

		render(users, func(w io.Writer) {
			for _, u := range users {
				fmt.Fprintln(w, u)
			}
		})
	},
}

func init() {
	cmdGet.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format - table, json, dump")

	cmdGet.AddCommand(cmdGetAssets)
	cmdGet.AddCommand(cmdGetGroups)
	cmdGet.AddCommand(cmdGetTechnologies)
	cmdGet.AddCommand(cmdGetBlogs)
	cmdGet.AddCommand(cmdGetExecutions)
	cmdGet.AddCommand(cmdGetUsers)

	rootCmd.AddCommand(cmdGet)
}
