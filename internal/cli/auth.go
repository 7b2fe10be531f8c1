package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/existflow/teamplan/internal/model"
	"github.com/existflow/teamplan/internal/session"
)

const minPasswordLength = 8

const (
	resetSentText    = "Password reset link sent! Please check your email."
	resetFailedText  = "Failed to send reset email. Please try again."
	resetNetworkText = "Network error. Please check your connection and try again."
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Sign in, sign up and recover your password on the teamplan server.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the server",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE:  runLogout,
}

var signupCmd = &cobra.Command{
	Use:     "signup",
	Aliases: []string{"register"},
	Short:   "Create a new account",
	RunE:    runSignup,
}

var forgotCmd = &cobra.Command{
	Use:   "forgot-password",
	Short: "Email a password reset link",
	RunE:  runForgotPassword,
}

var resetCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password using a reset token",
	RunE:  runResetPassword,
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"whoami"},
	Short:   "Show who is signed in",
	RunE:    runAuthStatus,
}

var (
	authEmail  string
	resetToken string
)

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(signupCmd)
	authCmd.AddCommand(forgotCmd)
	authCmd.AddCommand(resetCmd)
	authCmd.AddCommand(statusCmd)

	loginCmd.Flags().StringVar(&authEmail, "email", "", "Email address (prompted when empty)")
	forgotCmd.Flags().StringVar(&authEmail, "email", "", "Email address (prompted when empty)")
	resetCmd.Flags().StringVar(&resetToken, "token", "", "Reset token from the email link")
	_ = resetCmd.MarkFlagRequired("token")
}

func validateEmail(s string) error {
	if !model.IsValidEmail(s) {
		return errors.New("please enter a valid email address")
	}
	return nil
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// promptEmail returns the flag value when set, otherwise asks for it.
func promptEmail(initial string) (string, error) {
	email := strings.TrimSpace(initial)
	if email != "" {
		return email, validateEmail(email)
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&email).
				Validate(validateEmail),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(email), nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

// readNewPassword asks twice and enforces the minimum length.
func readNewPassword() (string, error) {
	password, err := readPassword("New password: ")
	if err != nil {
		return "", err
	}
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	email, err := promptEmail(authEmail)
	if err != nil {
		return err
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return errors.New("password is required")
	}

	fmt.Println("🔄 Signing in...")
	user, err := client.Login(context.Background(), email, password)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Signed in as %s\n", user.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	if !client.IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	if err := client.Logout(context.Background()); err != nil {
		return err
	}
	fmt.Println("✅ Logged out successfully.")
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	var email, accountName string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Account name").
				Placeholder("Your team or company").
				Value(&accountName).
				Validate(validateRequired("account name")),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	password, err := readNewPassword()
	if err != nil {
		return err
	}

	fmt.Println("🔄 Creating account...")
	user, err := client.Register(context.Background(), strings.TrimSpace(email), password, strings.TrimSpace(accountName))
	if err != nil {
		return err
	}

	fmt.Printf("✅ Account %q created, signed in as %s\n", user.Account.Name, user.Email)
	return nil
}

func runForgotPassword(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	email, err := promptEmail(authEmail)
	if err != nil {
		return err
	}

	res, err := client.ForgotPassword(context.Background(), email)
	if err != nil {
		return errors.New(resetNetworkText)
	}
	if !res.Success {
		if res.Message != "" {
			return errors.New(res.Message)
		}
		return errors.New(resetFailedText)
	}
	fmt.Println("📬 " + resetSentText)
	return nil
}

func runResetPassword(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	password, err := readNewPassword()
	if err != nil {
		return err
	}

	res, err := client.ResetPassword(context.Background(), resetToken, password)
	if err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("reset failed: %s", res.Message)
	}
	fmt.Println("✅ Password updated. Sign in with 'teamplan auth login'.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	s := session.New(client)
	if err := s.Start(context.Background()); err != nil {
		return err
	}

	state := s.State()
	if state.User == nil {
		fmt.Printf("Not logged in (%s)\n", client.ServerURL())
		return nil
	}
	u := state.User
	fmt.Printf("Signed in to %s\n", client.ServerURL())
	fmt.Printf("  Email:   %s\n", u.Email)
	fmt.Printf("  Role:    %s\n", u.Role)
	fmt.Printf("  Account: %s (%s)\n", u.Account.Name, u.Account.Status)
	return nil
}
