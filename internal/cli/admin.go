package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/username/alarm-api/internal/apperr"
	"github.com/username/alarm-api/internal/auth"
	"github.com/username/alarm-api/internal/user"
)

var (
	adminUsername string
	adminPassword string
)

// createAdminCmd seeds the first account so the dashboard can log in.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a user account",
	Long:  `Create a user account with the given credentials. An existing username is left untouched.`,
	RunE:  runCreateAdmin,
}

func init() {
	createAdminCmd.Flags().StringVarP(&adminUsername, "username", "u", "admin", "username of the new account")
	createAdminCmd.Flags().StringVarP(&adminPassword, "password", "p", "", "password of the new account (at least 6 characters)")
	_ = createAdminCmd.MarkFlagRequired("password")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.migrate(); err != nil {
		return err
	}

	tokens := auth.NewTokenIssuer(e.cfg.Auth.JWTSecret, e.cfg.Auth.TokenTTL)
	svc := auth.NewService(user.NewRepository(e.db), tokens, e.cfg.Auth.BcryptCost)

	sess, err := svc.Register(cmd.Context(), auth.Credentials{Username: adminUsername, Password: adminPassword})
	if apperr.Is(err, apperr.CodeConflict) {
		fmt.Fprintf(cmd.OutOrStdout(), "user %q already exists\n", adminUsername)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created user %q (id %s)\n", sess.User.Username, sess.User.ID)
	return nil
}
