package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/pontocerto/timeclock/internal/notification"
	"github.com/pontocerto/timeclock/jobs"
	"github.com/pontocerto/timeclock/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start notification worker",
	Long:  `Start the background worker that delivers queued welcome emails and WhatsApp messages`,
	Run: func(cmd *cobra.Command, args []string) {
		startWorker()
	},
}

func startWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	emailSender := notification.NewEmailSender(notification.EmailConfig{
		APIURL:  config.Notifications.Email.APIURL,
		APIKey:  config.Notifications.Email.APIKey,
		From:    config.Notifications.Email.From,
		Timeout: config.Notifications.Email.Timeout,
	}, log)

	whatsAppSender := notification.NewWhatsAppSender(notification.WhatsAppConfig{
		APIURL:      config.Notifications.WhatsApp.APIURL,
		APIKey:      config.Notifications.WhatsApp.APIKey,
		CountryCode: config.Notifications.WhatsApp.CountryCode,
		Timeout:     config.Notifications.WhatsApp.Timeout,
	}, log)

	worker := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		},
		Email:    emailSender,
		WhatsApp: whatsAppSender,
		Logger:   log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("notification worker starting", "redis_addr", config.Redis.Addr)

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		log.Error("worker stopped with error", "error", err)
		os.Exit(1)
	}

	log.Info("worker stopped")
}
