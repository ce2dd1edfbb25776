package cmd

import (
	"log"
	"os"

	"github.com/linistrate/linictl/internal/client"
	"github.com/spf13/cobra"
)

var cmdCreate = &cobra.Command{
	Use:   "create",
	Short: "create resources [asset|blog]",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

type createAssetFlags struct {
	name       string
	ip         string
	technology string
	username   string
	password   string
	group      string
	groupColor string
}

var createAssetFlagSet = &createAssetFlags{}

var cmdCreateAsset = &cobra.Command{
	Use:   "asset",
	Short: "Register a new asset, creating its group when it does not exist yet",
	Run: func(cmd *cobra.Command, _ []string) {
		createAsset(cmd)
	},
}

func createAsset(cmd *cobra.Command) {
	password := createAssetFlagSet.password
	if password == "" {
		var err error

		password, err = promptPassword("asset ssh password: ")
		fatalOnErr(err)
	}

	asset, err := api.CreateAsset(cmd.Context(), &client.AssetCreate{
		Name:       createAssetFlagSet.name,
		IP:         createAssetFlagSet.ip,
		Technology: createAssetFlagSet.technology,
		Username:   createAssetFlagSet.username,
		Password:   password,
		Group:      createAssetFlagSet.group,
		GroupColor: createAssetFlagSet.groupColor,
	})
	fatalOnErr(err)

	runtimeApp.Logger.WithField("asset_id", asset.ID).Info("asset created")
}

type blogFlags struct {
	id          int
	title       string
	content     string
	contentFile string
	assetID     int
}

var createBlogFlagSet = &blogFlags{}

var cmdCreateBlog = &cobra.Command{
	Use:   "blog",
	Short: "Create a blog entry, optionally attached to an asset",
	Run: func(cmd *cobra.Command, _ []string) {
		payload, err := blogPayload(createBlogFlagSet)
		fatalOnErr(err)

		fatalOnErr(api.CreateBlog(cmd.Context(), payload))

		runtimeApp.Logger.Info("blog entry created")
	},
}

// blogPayload assembles the create/edit body, reading content from a file
// when --content-file is given.
func blogPayload(flags *blogFlags) (*client.BlogCreate, error) {
	content := flags.content

	if flags.contentFile != "" {
		data, err := os.ReadFile(flags.contentFile)
		if err != nil {
			return nil, err
		}

		content = string(data)
	}

	return &client.BlogCreate{
		Title:         flags.title,
		Content:       content,
		AssetPostType: flags.assetID > 0,
		AssetID:       flags.assetID,
	}, nil
}

func init() {
	cmdCreateAsset.PersistentFlags().StringVar(&createAssetFlagSet.name, "name", "", "asset display name")
	cmdCreateAsset.PersistentFlags().StringVar(&createAssetFlagSet.ip, "ip", "", "asset IP address, immutable after creation")
	cmdCreateAsset.PersistentFlags().StringVar(&createAssetFlagSet.technology, "technology", "", "asset technology name")
	cmdCreateAsset.PersistentFlags().StringVar(&createAssetFlagSet.username, "username", "", "asset ssh username")
	cmdCreateAsset.PersistentFlags().StringVar(&createAssetFlagSet.password, "password", "", "asset ssh password, prompted when omitted")
	cmdCreateAsset.PersistentFlags().StringVar(&createAssetFlagSet.group, "group", "", "asset group name, created when unknown")
	cmdCreateAsset.PersistentFlags().StringVar(&createAssetFlagSet.groupColor, "group-color", "", "group color for a newly created group")

	required := []string{"name", "ip", "technology", "username", "group"}
	for _, r := range required {
		if err := cmdCreateAsset.MarkPersistentFlagRequired(r); err != nil {
			log.Fatal(err)
		}
	}

	cmdCreateBlog.PersistentFlags().StringVar(&createBlogFlagSet.title, "title", "", "blog entry title")
	cmdCreateBlog.PersistentFlags().StringVar(&createBlogFlagSet.content, "content", "", "blog entry content")
	cmdCreateBlog.PersistentFlags().StringVar(&createBlogFlagSet.contentFile, "content-file", "", "read content from a file")
	cmdCreateBlog.PersistentFlags().IntVar(&createBlogFlagSet.assetID, "asset-id", 0, "attach the entry to this asset")

	if err := cmdCreateBlog.MarkPersistentFlagRequired("title"); err != nil {
		log.Fatal(err)
	}

	cmdCreate.AddCommand(cmdCreateAsset)
	cmdCreate.AddCommand(cmdCreateBlog)

	rootCmd.AddCommand(cmdCreate)
}
