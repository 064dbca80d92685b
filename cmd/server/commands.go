package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ifuryst/beacon/internal/service"
	"github.com/ifuryst/beacon/internal/service/notify"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE:  runMigrate,
}

func newMigrateCommand() *cobra.Command {
	return migrateCmd
}

func runMigrate(*cobra.Command, []string) error {
	cfg, appLogger, err := setup()
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	// NewDatabase migrates on open
	if _, err := service.NewDatabase(&cfg.Database); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	appLogger.Info("Database migrated", zap.String("type", cfg.Database.Type))
	return nil
}

const subjectFlag = "subject"

var tokenFlags = map[string]cobraflags.Flag{
	subjectFlag: &cobraflags.StringFlag{
		Name:  subjectFlag,
		Value: "cli",
		Usage: "Subject recorded on the session",
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an admin session token without logging in",
	RunE:  runToken,
}

func newTokenCommand() *cobra.Command {
	cobraflags.RegisterMap(tokenCmd, tokenFlags)
	return tokenCmd
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, appLogger, err := setup()
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	db, err := service.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	timeout := service.QueryTimeout(&cfg.Database)
	auth := service.NewAuthService(db, appLogger, &cfg.Auth, timeout)

	token, principal, err := auth.IssueSession(cmd.Context(), tokenFlags[subjectFlag].GetString())
	if err != nil {
		return fmt.Errorf("failed to issue session: %w", err)
	}

	fmt.Printf("Token: %s\n", token)
	fmt.Printf("Expires at: %s\n", principal.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}

const (
	issuerFlag  = "issuer"
	accountFlag = "account"
)

var totpFlags = map[string]cobraflags.Flag{
	issuerFlag: &cobraflags.StringFlag{
		Name:  issuerFlag,
		Value: "Beacon",
		Usage: "Issuer shown by authenticator apps",
	},
	accountFlag: &cobraflags.StringFlag{
		Name:  accountFlag,
		Value: service.AdminSubject,
		Usage: "Account name shown by authenticator apps",
	},
}

var totpCmd = &cobra.Command{
	Use:   "totp",
	Short: "Generate a TOTP secret for admin login",
	Long: `Generate a new TOTP secret and its provisioning URL.

Set the printed secret as auth.totp_secret to require a one-time code on admin login.`,
	RunE: runTOTP,
}

func newTOTPCommand() *cobra.Command {
	cobraflags.RegisterMap(totpCmd, totpFlags)
	return totpCmd
}

func runTOTP(*cobra.Command, []string) error {
	key, err := service.GenerateSecret(totpFlags[issuerFlag].GetString(), totpFlags[accountFlag].GetString())
	if err != nil {
		return err
	}

	fmt.Printf("Secret: %s\n", key.Secret())
	fmt.Printf("URL: %s\n", key.URL())
	return nil
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Deliver queued notifications by email",
	Long: `Consume notification events published by the server and send each one
through the configured SMTP relay. Requires queue and mail to be enabled.`,
	RunE: runWorker,
}

func newWorkerCommand() *cobra.Command {
	return workerCmd
}

func runWorker(*cobra.Command, []string) error {
	cfg, appLogger, err := setup()
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	if !cfg.Queue.Enabled || !cfg.Mail.Enabled {
		return fmt.Errorf("worker requires queue.enabled and mail.enabled")
	}

	queue, err := notify.NewQueueNotifier(&cfg.Queue, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize queue: %w", err)
	}
	defer queue.Close()

	mailer := notify.NewMailNotifier(&cfg.Mail)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Starting notification worker", zap.String("queue", cfg.Queue.Queue))

	if err := queue.Consume(ctx, mailer.Notify); err != nil {
		return fmt.Errorf("failed to consume notifications: %w", err)
	}

	appLogger.Info("Notification worker stopped")
	return nil
}
