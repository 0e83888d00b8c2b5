package main

import (
	"fmt"
	"os"

	userstore "github.com/dalemusser/impacthub/internal/app/store/users"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// seedUser is one entry in the seed file.
type seedUser struct {
	FullName   string `yaml:"full_name"`
	Email      string `yaml:"email"`
	Role       string `yaml:"role"`
	StateScope string `yaml:"state_scope"`
	Password   string `yaml:"password"`
}

type seedFile struct {
	Users []seedUser `yaml:"users"`
}

// seedUsersCmd loads users from a YAML file. Existing accounts are
// promoted to the listed role and activated; their passwords are kept.
func seedUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-users <file.yaml>",
		Short: "Create or promote accounts from a YAML seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read seed file: %w", err)
			}
			var seed seedFile
			if err := yaml.Unmarshal(raw, &seed); err != nil {
				return fmt.Errorf("parse seed file: %w", err)
			}
			if len(seed.Users) == 0 {
				return fmt.Errorf("seed file lists no users")
			}
			for i, u := range seed.Users {
				if u.Email == "" || u.Password == "" {
					return fmt.Errorf("user %d: email and password are required", i+1)
				}
				if !authz.ValidRole(u.Role) {
					return fmt.Errorf("user %s: unknown role %q", u.Email, u.Role)
				}
			}

			ctx, cancel := commandContext()
			defer cancel()
			client, db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer client.Disconnect(ctx)

			users := userstore.New(db)
			for _, u := range seed.Users {
				created, err := users.PromoteOrCreate(ctx, u.FullName, u.Email, u.Role, u.StateScope, u.Password)
				if err != nil {
					return fmt.Errorf("seed %s: %w", u.Email, err)
				}
				fmt.Printf("%s  %s (%s)\n", created.ID.Hex(), created.Email, created.Role)
			}
			return nil
		},
	}
}
