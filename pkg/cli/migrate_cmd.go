package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"admin-console/internal/crypto"
	internaldb "admin-console/internal/db"
	"admin-console/internal/db/repository"
)

// newMigrateCredentialsCmd converts legacy bcrypt credentials to the
// encrypted format. Bcrypt hashes cannot be decrypted, so migrated accounts
// are reset to a known password that must be communicated to their owners.
func newMigrateCredentialsCmd() *cobra.Command {
	var (
		dbPath   string
		key      string
		password string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "migrate-credentials",
		Short: "Convert legacy bcrypt credentials to the encrypted format",
		Long: `Scan the account store for legacy bcrypt credentials and re-encode them
in the encrypted format. Bcrypt hashes are one-way, so every migrated account
is reset to the given password. Tell affected users their new password.`,
		Example: `  # Reset all legacy accounts to Password123!
  amcli migrate-credentials --db console.sqlite

  # Prompt for the reset password instead
  amcli migrate-credentials --db console.sqlite --password ""`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if key == "" {
				key = os.Getenv("ENCRYPTION_KEY")
			}
			codec, err := crypto.NewCodec(key)
			if err != nil {
				return fmt.Errorf("credential codec: %w", err)
			}

			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Reset password for migrated accounts: ")
				raw, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(cmd.OutOrStdout())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = string(raw)
				if password == "" {
					return fmt.Errorf("reset password must not be empty")
				}
			}

			writeDB, readDB, err := internaldb.OpenSQLitePair(dbPath, 1)
			if err != nil {
				return fmt.Errorf("open account store: %w", err)
			}
			defer writeDB.Close()
			defer readDB.Close()

			if err := internaldb.RunMigrations(writeDB); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}

			repo := repository.NewPrincipalRepo(writeDB)
			ctx := cmd.Context()
			principals, err := repo.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("list accounts: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Found %d accounts\n", len(principals))

			var migrated, skipped int
			for i := range principals {
				p := &principals[i]
				if crypto.Classify(p.Credential) != crypto.FormatLegacy {
					skipped++
					continue
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Migrating %s (%s)\n", p.Email, p.Role)
				if dryRun {
					migrated++
					continue
				}

				encrypted, err := codec.Encrypt(password)
				if err != nil {
					return fmt.Errorf("encrypt credential for %s: %w", p.Email, err)
				}
				p.Credential = encrypted
				p.UpdatedAt = time.Now().UTC()
				if _, err := repo.Save(ctx, p); err != nil {
					return fmt.Errorf("save %s: %w", p.Email, err)
				}
				migrated++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d, already encrypted %d\n", migrated, skipped)
			if migrated > 0 && !dryRun {
				fmt.Fprintln(cmd.OutOrStdout(), "Tell affected users their password has been reset.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "console.sqlite", "Path to the SQLite account store")
	cmd.Flags().StringVar(&key, "key", "", "Encryption key material (defaults to ENCRYPTION_KEY)")
	cmd.Flags().StringVar(&password, "password", "Password123!", "Reset password for migrated accounts (empty prompts)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")

	return cmd
}
