package main

import (
	"fmt"
	"syscall"

	userstore "github.com/dalemusser/impacthub/internal/app/store/users"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// verifyUserCmd checks an email/password pair against the stored hash,
// for diagnosing login complaints without touching the HTTP surface.
func verifyUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify-user <email>",
		Short: "Check a password against the stored credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print("Password: ")
			raw, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			ctx, cancel := commandContext()
			defer cancel()
			client, db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer client.Disconnect(ctx)

			users := userstore.New(db)
			u, err := users.GetByEmail(ctx, args[0])
			if err != nil {
				return fmt.Errorf("load user: %w", err)
			}
			if err := users.VerifyPassword(u, string(raw)); err != nil {
				return fmt.Errorf("password does not match")
			}

			status := "active"
			if !u.Active {
				status = "inactive"
			}
			role := u.Role
			if role == "" {
				role = "(pending)"
			}
			fmt.Printf("ok: %s  role=%s  status=%s\n", u.Email, role, status)
			return nil
		},
	}
}
