package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zfogg/moodjournal/pkg/guard"
	"github.com/zfogg/moodjournal/pkg/service"
)

var (
	profileUserName       string
	profileChangePassword bool
)

var profileCmd = &cobra.Command{
	Use:         "profile",
	Short:       "Your profile and mood statistics",
	Annotations: withGuard(guard.KindProtected),
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile, streak and mood trends",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewProfileService(rt.deps).Show(cmd.Context())
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change your username or password",
	RunE: func(cmd *cobra.Command, args []string) error {
		form := service.ProfileForm{UserName: profileUserName}
		if profileChangePassword {
			var err error
			if form.NewPassword, err = rt.deps.Prompt.Password("New password: "); err != nil {
				return err
			}
			if form.ConfirmPassword, err = rt.deps.Prompt.Password("Confirm new password: "); err != nil {
				return err
			}
		}
		return service.NewProfileService(rt.deps).Update(cmd.Context(), form)
	},
}

func init() {
	profileUpdateCmd.Flags().StringVarP(&profileUserName, "username", "u", "", "New username")
	profileUpdateCmd.Flags().BoolVar(&profileChangePassword, "password", false, "Prompt for a new password")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileUpdateCmd)
}
