package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"igen/internal/models"
	"igen/internal/services"
)

func newUserCommand(open dbOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserCreateCommand(open))
	return cmd
}

func newUserCreateCommand(open dbOpener) *cobra.Command {
	var (
		userID     string
		password   string
		fullName   string
		role       string
		companyIDs []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user directly in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("IGEN_PASSWORD")
			}
			if password == "" {
				return fmt.Errorf("--password or IGEN_PASSWORD is required")
			}

			db, err := open()
			if err != nil {
				return err
			}

			user, err := services.NewUserService(db).CreateUser(services.CreateUserRequest{
				UserID:     userID,
				Password:   password,
				FullName:   fullName,
				Role:       models.Role(role),
				CompanyIDs: companyIDs,
			})
			if err != nil {
				return fmt.Errorf("creating user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s user %s (%s)\n", user.Role, user.UserID, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "login id (required)")
	_ = cmd.MarkFlagRequired("user-id")
	cmd.Flags().StringVar(&password, "password", "", "password, defaults to $IGEN_PASSWORD")
	cmd.Flags().StringVar(&fullName, "full-name", "", "display name")
	cmd.Flags().StringVar(&role, "role", string(models.RoleSuperUser), "SUPER_USER, ACCOUNTANT, PROPERTY_MANAGER or CENTER_HEAD")
	cmd.Flags().StringSliceVar(&companyIDs, "company", nil, "company id the user may access (repeatable)")

	return cmd
}
