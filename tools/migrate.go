package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"farmhith/config"
	"farmhith/database"
	"farmhith/database/seeders"
	"farmhith/repository"
	otpService "farmhith/services/otp"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "FarmHith database maintenance",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newMigrateCmd(), newCreateAdminCmd(), newCleanupCmd())
	return root
}

func openDB() (*gorm.DB, error) {
	cfg := config.Load()
	return database.Open(cfg)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table and index",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			fmt.Println("🚀 Running database migrations...")
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("❌ migration failed: %w", err)
			}
			fmt.Println("✅ Migration completed successfully!")
			return nil
		},
	}
}

func newCreateAdminCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account or reset an existing admin's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			u, err := seeders.SeedAdmin(db, email, password)
			if err != nil {
				return fmt.Errorf("❌ %w", err)
			}
			fmt.Printf("✅ Admin %s ready (id %s)\n", u.EmailAddress(), u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (defaults to $ADMIN_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newCleanupCmd() *cobra.Command {
	var sessionGrace time.Duration
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired OTPs and sessions and lift finished OTP blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			ctx := context.Background()
			otps := otpService.NewOTPService(repository.NewGormOTPRepository(db), nil)

			unblocked, err := otps.CleanupExpiredBlocks(ctx)
			if err != nil {
				return fmt.Errorf("❌ %w", err)
			}
			deleted, err := otps.CleanupExpiredOTPs(ctx)
			if err != nil {
				return fmt.Errorf("❌ failed to delete expired OTPs: %w", err)
			}
			sessions, err := repository.NewGormSessionRepository(db).DeleteExpired(ctx, time.Now().Add(-sessionGrace))
			if err != nil {
				return fmt.Errorf("❌ failed to delete expired sessions: %w", err)
			}

			fmt.Printf("✅ Unblocked %d OTPs, deleted %d expired OTPs and %d expired sessions\n", unblocked, deleted, sessions)
			return nil
		},
	}
	cmd.Flags().DurationVar(&sessionGrace, "session-grace", 0, "keep sessions this long after they expire")
	return cmd
}
