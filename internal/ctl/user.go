package ctl

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/truthlens/truthlens/internal/server/services"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Long:  `Create a user. The password is prompted without echo unless --password is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if password == "" {
			var err error
			password, err = promptPassword()
			if err != nil {
				return err
			}
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		users := services.NewUserService(e.db, e.rm, e.cfg)
		user, err := users.Register(cmd.Context(), username, email, password)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "created user %d (%s)\n", user.ID, user.Username)
		return nil
	},
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("error reading password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func init() {
	userCreateCmd.Flags().String("username", "", "username (required)")
	userCreateCmd.Flags().String("email", "", "email (required)")
	userCreateCmd.Flags().String("password", "", "password (prompted when omitted)")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userCreateCmd)
}
