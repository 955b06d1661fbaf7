package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/linkbot/internal/directory/app"
	"github.com/aussiebroadwan/linkbot/internal/directory/domain"
	"github.com/aussiebroadwan/linkbot/pkg/slogx"
	"github.com/spf13/cobra"
)

var printBarrier = strings.Repeat("-", 40)

func printHeader(w io.Writer, msg string, withNewline bool) {
	if withNewline {
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, printBarrier)
	fmt.Fprintln(w, msg)
	fmt.Fprintln(w, printBarrier)
}

// withCore opens the database for the duration of one admin command.
// Logs go to stderr so stdout stays readable.
func withCore(cmd *cobra.Command, fn func(core *app.Core) error) error {
	cfg := app.LoadConfig()
	logger := app.NewLoggerTo(cfg, cmd.ErrOrStderr())

	cmd.SetContext(slogx.WithContext(cmd.Context(), logger.With("command", cmd.CommandPath())))

	core, err := app.OpenCore(cmd.Context(), cfg, logger, nil)
	if err != nil {
		return err
	}
	defer core.Close()

	return fn(core)
}

func newAdminCmd() *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage users and linked identities directly in the database",
	}

	admin.AddCommand(
		newAdminShowCmd(),
		newAdminAddCmd(),
		newAdminDeleteCmd(),
		newAdminLinkCmd(),
	)
	return admin
}

func newAdminShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List all users and linked identities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCore(cmd, func(core *app.Core) error {
				out := cmd.OutOrStdout()

				users, err := core.Admin.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				printHeader(out, "List all users:", false)
				for _, u := range users {
					fmt.Fprintln(out, u)
				}

				links, err := core.Admin.ListLinks(cmd.Context())
				if err != nil {
					return err
				}
				printHeader(out, "List all linked identities:", true)
				for _, l := range links {
					fmt.Fprintf(out, "id=%d: user_id=%d\n", l.ExternalID, l.UserID)
				}
				return nil
			})
		},
	}
}

func newAdminAddCmd() *cobra.Command {
	var asAdmin bool

	cmd := &cobra.Command{
		Use:     "add <name>",
		Short:   "Create a user with a fresh start link",
		Example: "linkbot admin add alice\nlinkbot admin add bob --admin",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := domain.RoleUser
			if asAdmin {
				role = domain.RoleAdmin
			}

			return withCore(cmd, func(core *app.Core) error {
				user, err := core.Admin.CreateUser(cmd.Context(), args[0], role)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created user %s\n", user)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asAdmin, "admin", false, "grant the admin role")
	return cmd
}

func newAdminDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a user and its linked identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(cmd, func(core *app.Core) error {
				user, err := core.Admin.DeleteUser(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", user)
				return nil
			})
		},
	}
}

func newAdminLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <start_token> <external_id>",
		Short: "Link a chat identity to the user owning start_token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			externalID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("external_id must be an integer: %w", err)
			}

			return withCore(cmd, func(core *app.Core) error {
				entry, err := core.Registration.Register(cmd.Context(), args[0], externalID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Linked %s\n", entry)
				return nil
			})
		},
	}
}
