package cmd

import (
	"log"

	"github.com/linistrate/linictl/internal/client"
	"github.com/spf13/cobra"
)

var cmdEdit = &cobra.Command{
	Use:   "edit",
	Short: "edit resources [asset|blog]",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

type editAssetFlags struct {
	id         int
	name       string
	technology string
	username   string
	password   string
	group      string
	groupColor string
}

var editAssetFlagSet = &editAssetFlags{}

// The asset IP is immutable after creation, so the edit command offers no
// --ip flag and the update payload carries no IP field.
var cmdEditAsset = &cobra.Command{
	Use:   "asset",
	Short: "Update asset attributes, the IP address cannot be changed",
	Run: func(cmd *cobra.Command, _ []string) {
		err := api.UpdateAsset(cmd.Context(), editAssetFlagSet.id, &client.AssetUpdate{
			Name:       editAssetFlagSet.name,
			Technology: editAssetFlagSet.technology,
			Username:   editAssetFlagSet.username,
			Password:   editAssetFlagSet.password,
			Group:      editAssetFlagSet.group,
			GroupColor: editAssetFlagSet.groupColor,
		})
		fatalOnErr(err)

		runtimeApp.Logger.WithField("asset_id", editAssetFlagSet.id).Info("asset updated")
	},
}

var editBlogFlagSet = &blogFlags{}

var cmdEditBlog = &cobra.Command{
	Use:   "blog",
	Short: "Replace the title, content and asset attachment of a blog entry",
	Run: func(cmd *cobra.Command, _ []string) {
		payload, err := blogPayload(editBlogFlagSet)
		fatalOnErr(err)

		fatalOnErr(api.EditBlog(cmd.Context(), editBlogFlagSet.id, payload))

		runtimeApp.Logger.WithField("blog_id", editBlogFlagSet.id).Info("blog entry updated")
	},
}

func init() {
	cmdEditAsset.PersistentFlags().IntVar(&editAssetFlagSet.id, "id", 0, "asset id")
	cmdEditAsset.PersistentFlags().StringVar(&editAssetFlagSet.name, "name", "", "asset display name")
	cmdEditAsset.PersistentFlags().StringVar(&editAssetFlagSet.technology, "technology", "", "asset technology name")
	cmdEditAsset.PersistentFlags().StringVar(&editAssetFlagSet.username, "username", "", "asset ssh username")
	cmdEditAsset.PersistentFlags().StringVar(&editAssetFlagSet.password, "password", "", "asset ssh password")
	cmdEditAsset.PersistentFlags().StringVar(&editAssetFlagSet.group, "group", "", "asset group name, created when unknown")
	cmdEditAsset.PersistentFlags().StringVar(&editAssetFlagSet.groupColor, "group-color", "", "group color for a newly created group")

	if err := cmdEditAsset.MarkPersistentFlagRequired("id"); err != nil {
		log.Fatal(err)
	}

	cmdEditBlog.PersistentFlags().IntVar(&editBlogFlagSet.id, "id", 0, "blog entry id")
	cmdEditBlog.PersistentFlags().StringVar(&editBlogFlagSet.title, "title", "", "blog entry title")
	cmdEditBlog.PersistentFlags().StringVar(&editBlogFlagSet.content, "content", "", "blog entry content")
	cmdEditBlog.PersistentFlags().StringVar(&editBlogFlagSet.contentFile, "content-file", "", "read content from a file")
	cmdEditBlog.PersistentFlags().IntVar(&editBlogFlagSet.assetID, "asset-id", 0, "attach the entry to this asset")

	required := []string{"id", "title"}
	for _, r := range required {
		if err := cmdEditBlog.MarkPersistentFlagRequired(r); err != nil {
			log.Fatal(err)
		}
	}

	cmdEdit.AddCommand(cmdEditAsset)
	cmdEdit.AddCommand(cmdEditBlog)

	rootCmd.AddCommand(cmdEdit)
}
