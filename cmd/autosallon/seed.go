package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/autosallon-backend/internal/auth"
)

func newSeedAdminCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create or promote the admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = a.cfg.Admin.Email
			}
			if password == "" {
				password = a.cfg.Admin.Password
			}
			result, err := auth.SeedAdmin(cmd.Context(), a.db, a.cfg.Password, email, password)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			verb := "promoted"
			if result.Created {
				verb = "created"
			}
			fmt.Fprintf(out, "%s admin %s\n", verb, result.User.Email)
			if result.GeneratedPassword != "" {
				fmt.Fprintf(out, "generated password: %s\n", result.GeneratedPassword)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email (defaults to AUTOSALLON_ADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "admin password (defaults to AUTOSALLON_ADMIN_PASSWORD, generated when empty)")
	return cmd
}
