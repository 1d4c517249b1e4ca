package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"admin-console/internal/domain"
	"admin-console/internal/token"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication helpers",
	}

	cmd.AddCommand(newAuthTokenCmd())
	return cmd
}

func newAuthTokenCmd() *cobra.Command {
	var (
		principalID string
		role        string
		secret      string
		expires     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generate a dev-mode session token and save it to the active profile",
		Long:  "Generate an HS256 session token for development and testing. The token is saved to the active profile automatically.",
		Example: `  # Generate a User token
  amcli auth token --principal 0198f6a2-... --secret dev-secret

  # Generate a SuperAdmin token with custom expiry
  amcli auth token --principal 0198f6a2-... --role SuperAdmin --secret dev-secret --expires 48h`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := domain.ParseRole(role)
			if err != nil {
				return fmt.Errorf("invalid role %q: use SuperAdmin, Admin, or User", role)
			}

			issuer := token.NewIssuer(secret, expires)
			signed, err := issuer.Issue(principalID, r, expires)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			// Save to the active profile, honoring a --profile override.
			override, _ := cmd.Root().PersistentFlags().GetString("profile")
			cfg, err := LoadUserConfig()
			if err != nil {
				cfg = &UserConfig{}
			}
			if cfg.Profiles == nil {
				cfg.Profiles = make(map[string]Profile)
			}
			profileName := cfg.ActiveProfileName(override)
			p := cfg.ActiveProfile(override)
			p.Token = signed
			cfg.Profiles[profileName] = p
			if cfg.CurrentProfile == "" {
				cfg.CurrentProfile = profileName
			}
			if err := SaveUserConfig(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&principalID, "principal", "", "Principal ID (token sub claim)")
	cmd.Flags().StringVar(&role, "role", "User", "Role claim (SuperAdmin, Admin, or User)")
	cmd.Flags().StringVar(&secret, "secret", "", "Token signing secret (HS256)")
	cmd.Flags().DurationVar(&expires, "expires", 24*time.Hour, "Token expiry duration")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}
