package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zfogg/moodjournal/pkg/guard"
	"github.com/zfogg/moodjournal/pkg/service"
)

var (
	loginUser   string
	signupUser  string
	signupEmail string
	otpEmail    string
	otpCode     string
	resendEmail string
)

var authCmd = &cobra.Command{
	Use:         "auth",
	Short:       "Authentication commands",
	Long:        "Sign in, create an account and manage your session",
	Annotations: withGuard(guard.KindPublic),
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to Mood Journal",
	Long: `Sign in with your username and password. Missing values are prompted
for; the password is never echoed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(rt.deps).Login(cmd.Context(), loginUser, "")
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new account",
	Long:  "Create an account. A verification code is emailed to you afterwards.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(rt.deps).Signup(cmd.Context(), service.SignupForm{
			UserName: signupUser,
			Email:    signupEmail,
		})
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify your email with the emailed code",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(rt.deps).Verify(cmd.Context(), otpEmail, otpCode)
	},
}

var resendOTPCmd = &cobra.Command{
	Use:   "resend-otp",
	Short: "Send a new verification code",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(rt.deps).ResendOTP(cmd.Context(), resendEmail)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(rt.deps).Logout(cmd.Context())
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is signed in",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewAuthService(rt.deps).Status(cmd.Context())
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUser, "username", "u", "", "Username")

	signupCmd.Flags().StringVarP(&signupUser, "username", "u", "", "Username")
	signupCmd.Flags().StringVarP(&signupEmail, "email", "e", "", "Email address")

	verifyCmd.Flags().StringVarP(&otpEmail, "email", "e", "", "Email address the code was sent to")
	verifyCmd.Flags().StringVar(&otpCode, "code", "", "6-digit verification code")
	_ = verifyCmd.MarkFlagRequired("email")

	resendOTPCmd.Flags().StringVarP(&resendEmail, "email", "e", "", "Email address to send the code to")
	_ = resendOTPCmd.MarkFlagRequired("email")

	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(signupCmd)
	authCmd.AddCommand(verifyCmd)
	authCmd.AddCommand(resendOTPCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
}
