package cli

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"text/tabwriter"

	"github.com/martijn/miniblog/internal/core/domain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
	Long:  "Operator-level user management, bypassing the RPC surface",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices()
		if err != nil {
			return err
		}
		defer services.Close()

		users, err := services.UserRepo.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		if len(users) == 0 {
			fmt.Println("No users found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLOGIN\tNAME\tEMAIL\tADMIN\tCREATED AT")
		for _, user := range users {
			admin := ""
			if user.IsAdmin {
				admin = "yes"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				user.ID,
				user.Login,
				user.Name,
				user.Email,
				admin,
				user.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		w.Flush()

		return nil
	},
}

var usersSetPasswordCmd = &cobra.Command{
	Use:   "set-password <login>",
	Short: "Set a user's password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		login := args[0]

		services, err := initServices()
		if err != nil {
			return err
		}
		defer services.Close()

		fmt.Print("Enter new password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		fmt.Print("Confirm new password: ")
		confirmPassword, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		if string(password) != string(confirmPassword) {
			return fmt.Errorf("passwords do not match")
		}

		if err := services.UserService.ResetPassword(cmd.Context(), login, string(password)); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return fmt.Errorf("user not found: %s", login)
			}
			return fmt.Errorf("failed to reset password: %w", err)
		}

		fmt.Printf("Password updated for user '%s', existing sessions revoked\n", login)
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <login>",
	Short: "Delete a user and all their posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		login := args[0]

		services, err := initServices()
		if err != nil {
			return err
		}
		defer services.Close()

		user, err := services.UserRepo.FindByLogin(cmd.Context(), login)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return fmt.Errorf("user not found: %s", login)
			}
			return err
		}

		fmt.Printf("Are you sure you want to delete user '%s' and all their posts? (yes/no): ", login)
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" {
			fmt.Println("Cancelled")
			return nil
		}

		if err := services.UserRepo.DeleteCascade(cmd.Context(), user.ID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		fmt.Printf("User '%s' deleted\n", login)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersSetPasswordCmd)
	usersCmd.AddCommand(usersDeleteCmd)
}
