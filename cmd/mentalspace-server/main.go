package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/config"
	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/domain/alert"
	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/domain/appointment"
	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/domain/client"
	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/domain/identity"
	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/domain/note"
	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/domain/notification"
	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/platform/auth"
	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/platform/db"
	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/platform/mail"
	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/platform/middleware"
	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/internal/platform/scheduler"
)

func main() {
	root := &cobra.Command{
		Use:   "mentalspace-server",
		Short: "MentalSpace EHR practice management API",
	}
	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}
	return logger
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			cancel()
			if err != nil {
				return err
			}
			defer pool.Close()

			// Repositories
			userRepo := identity.NewUserRepoPG(pool)
			clientRepo := client.NewClientRepoPG(pool)
			alertRepo := alert.NewAlertRepoPG(pool)
			ruleRepo := notification.NewRuleRepoPG(pool)
			logRepo := notification.NewLogRepoPG(pool)
			noteRepo := note.NewNoteRepoPG(pool)
			apptRepo := appointment.NewAppointmentRepoPG(pool)

			// Services
			userSvc := identity.NewService(userRepo)
			clientSvc := client.NewService(clientRepo)
			alertSvc := alert.NewService(alertRepo)
			ruleSvc := notification.NewService(ruleRepo, logRepo)

			var emailSender mail.EmailSender
			if cfg.SMTPHost != "" {
				emailSender = mail.NewSMTPSender(mail.SMTPConfig{
					Host: cfg.SMTPHost, Port: cfg.SMTPPort,
					User: cfg.SMTPUser, Pass: cfg.SMTPPass,
					From: cfg.EmailFrom,
				})
			} else {
				logger.Warn().Msg("SMTP_HOST not set; email delivery disabled, messages recorded only")
				emailSender = &mail.MockEmailSender{}
			}

			dispatcher := notification.NewDispatcher(logRepo, emailSender,
				&alertSinkAdapter{svc: alertSvc}, logger)
			evaluator := notification.NewEvaluator(ruleRepo,
				&directoryAdapter{users: userSvc, clients: clientSvc}, dispatcher, logger)

			noteSvc := note.NewService(noteRepo, evaluator, cfg.NoteDueAfterDays, logger)
			apptSvc := appointment.NewService(apptRepo, evaluator, cfg.ApptReminderLeadHrs, logger)

			// HTTP server
			e := echo.New()
			e.HideBanner = true
			e.HidePort = true
			e.Use(middleware.RequestID())
			e.Use(middleware.Logger(logger))
			e.Use(middleware.Recovery(logger))
			e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
			e.Use(middleware.RateLimit(middleware.RateLimitConfig{
				RequestsPerSecond: cfg.RateLimitRPS,
				BurstSize:         cfg.RateLimitBurst,
			}))

			e.GET("/health", func(c echo.Context) error {
				if err := pool.Ping(c.Request().Context()); err != nil {
					return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "down"})
				}
				return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
			})

			api := e.Group("/api/v1")
			if cfg.IsDev() && cfg.AuthSigningKey == "" {
				api.Use(auth.DevAuthMiddleware())
			} else {
				api.Use(auth.JWTMiddleware(auth.JWTConfig{
					Issuer:     cfg.AuthIssuer,
					Audience:   cfg.AuthAudience,
					SigningKey: []byte(cfg.AuthSigningKey),
				}))
			}

			identity.NewHandler(userSvc).RegisterRoutes(api)
			client.NewHandler(clientSvc).RegisterRoutes(api)
			alert.NewHandler(alertSvc).RegisterRoutes(api)
			notification.NewHandler(ruleSvc, evaluator).RegisterRoutes(api)
			note.NewHandler(noteSvc).RegisterRoutes(api)
			appointment.NewHandler(apptSvc).RegisterRoutes(api)

			// Background jobs
			var sched *scheduler.Scheduler
			if cfg.SchedulerEnabled {
				sched = scheduler.New(logger)
				jobs := []scheduler.Job{
					{Name: "overdue-note-scan", Spec: cfg.OverdueNoteCron, Run: noteSvc.ScanOverdue},
					{Name: "appointment-reminders", Spec: cfg.ApptReminderCron, Run: apptSvc.ScanReminders},
					{Name: "data-quality-check", Spec: cfg.DataQualityCron,
						Run: dataQualityJob(clientSvc, evaluator)},
				}
				for _, job := range jobs {
					if err := sched.Register(job); err != nil {
						return err
					}
				}
				sched.Start()
			}

			go func() {
				logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
				if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			logger.Info().Msg("shutting down")

			if sched != nil {
				sched.Stop()
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
}

// dataQualityJob counts client records missing contact email and raises a
// trigger event so admins can be alerted when the count is nonzero.
func dataQualityJob(clients *client.Service, evaluator *notification.Evaluator) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		count, err := clients.CountMissingEmail(ctx)
		if err != nil {
			return fmt.Errorf("count clients missing email: %w", err)
		}
		if count == 0 {
			return nil
		}
		_, err = evaluator.Evaluate(ctx, "Data Quality Issue", "", map[string]interface{}{
			"issue":               "clients_missing_email",
			"missing_email_count": count,
		})
		return err
	}
}

func migrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	var dir string
	migrate.PersistentFlags().StringVar(&dir, "dir", "migrations", "migrations directory")

	withMigrator := func(run func(ctx context.Context, m *db.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, 2, 1)
			if err != nil {
				return err
			}
			defer pool.Close()
			return run(ctx, db.NewMigrator(pool, dir))
		}
	}

	migrate.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: withMigrator(func(ctx context.Context, m *db.Migrator) error {
			n, err := m.Up(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("applied %d migration(s)\n", n)
			return nil
		}),
	})

	migrate.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: withMigrator(func(ctx context.Context, m *db.Migrator) error {
			statuses, err := m.Status(ctx)
			if err != nil {
				return err
			}
			for _, s := range statuses {
				state := "pending"
				if s.Applied {
					state = "applied " + s.AppliedAt.Format(time.RFC3339)
				}
				fmt.Printf("%03d  %-40s %s\n", s.Version, s.Name, state)
			}
			return nil
		}),
	})

	return migrate
}
