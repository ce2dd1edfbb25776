package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var cmdDelete = &cobra.Command{
	Use:   "delete",
	Short: "delete resources [asset|blog]",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var deleteAssetID int

var cmdDeleteAsset = &cobra.Command{
	Use:   "asset",
	Short: "Delete an asset by id",
	Run: func(cmd *cobra.Command, _ []string) {
		fatalOnErr(api.DeleteAsset(cmd.Context(), deleteAssetID))

		runtimeApp.Logger.WithField("asset_id", deleteAssetID).Info("asset deleted")
	},
}

var deleteBlogID int

var cmdDeleteBlog = &cobra.Command{
	Use:   "blog",
	Short: "Delete a blog entry by id",
	Run: func(cmd *cobra.Command, _ []string) {
		fatalOnErr(api.DeleteBlog(cmd.Context(), deleteBlogID))

		runtimeApp.Logger.WithField("blog_id", deleteBlogID).Info("blog entry deleted")
	},
}

func init() {
	cmdDeleteAsset.PersistentFlags().IntVar(&deleteAssetID, "id", 0, "asset id")
	if err := cmdDeleteAsset.MarkPersistentFlagRequired("id"); err != nil {
		log.Fatal(err)
	}

	cmdDeleteBlog.PersistentFlags().IntVar(&deleteBlogID, "id", 0, "blog entry id")
	if err := cmdDeleteBlog.MarkPersistentFlagRequired("id"); err != nil {
		log.Fatal(err)
	}

	cmdDelete.AddCommand(cmdDeleteAsset)
	cmdDelete.AddCommand(cmdDeleteBlog)

	rootCmd.AddCommand(cmdDelete)
}
