package main

import (
	"github.com/aussiebroadwan/linkbot/internal/directory/app"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "linkbot",
		Short: "Links chat identities to user accounts.",
		Long: `linkbot keeps the directory of users and the chat identities linked to them.

Users are created by an operator and receive a one-time start link. Opening
the link in the chat client registers that chat identity to the user.

Configuration is read from the environment (LINKBOT_DATABASE_FILE,
LINKBOT_BOT_NAME, LINKBOT_ADMIN_TOKEN, ...).`,
		Version:       app.BuildVersion,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newServeCmd(), newAdminCmd())
	return root
}
