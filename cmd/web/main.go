package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/config"
	apphttp "silicon.com/app/internal/http"
	"silicon.com/app/internal/http/flash"
	"silicon.com/app/internal/http/middleware"
	"silicon.com/app/internal/logging"
	"silicon.com/app/internal/mailer"
	"silicon.com/app/internal/modules/contacts"
	"silicon.com/app/internal/modules/enquiry"
	"silicon.com/app/internal/storage"
	"silicon.com/app/internal/wizard"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "web:", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; production uses real env vars
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, flush := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Console: true})
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	images, err := storage.New(ctx, storage.Options{
		Driver:         cfg.Storage.Driver,
		LocalDir:       cfg.Storage.LocalDir,
		LocalURLPrefix: cfg.Storage.LocalURLPrefix,
		S3: storage.S3Config{
			Region:        cfg.Storage.S3Region,
			Bucket:        cfg.Storage.S3Bucket,
			Prefix:        cfg.Storage.S3Prefix,
			PublicBaseURL: cfg.Storage.S3PublicURL,
		},
	})
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	mail, err := mailer.New(mailer.Options{
		Driver: cfg.Mail.Driver,
		SMTP: mailer.SMTPConfig{
			Host:          cfg.Mail.SMTPHost,
			Port:          cfg.Mail.SMTPPort,
			User:          cfg.Mail.SMTPUser,
			Pass:          cfg.Mail.SMTPPass,
			TLSMode:       cfg.Mail.SMTPTLSMode,
			SkipVerifyTLS: cfg.Mail.SMTPSkipTLS,
		},
		MailtrapURL:   cfg.Mail.MailtrapURL,
		MailtrapToken: cfg.Mail.MailtrapToken,
	})
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}

	client := backend.New(backend.Config{BaseURL: cfg.BackendURL, Timeout: cfg.BackendTimeout})
	// Enquiries get their own client: the proxy waits up to its own 60s.
	enquiryClient := backend.New(backend.Config{BaseURL: cfg.BackendURL, Timeout: enquiry.Timeout})
	if !client.Configured() {
		logger.Warn("backend_not_configured", zap.String("env", "BACKEND_API_URL"))
	}

	store := wizard.NewStore(cfg.WizardTTL)
	go store.Run(ctx, time.Minute)

	gin.SetMode(cfg.GinMode)
	router := apphttp.NewRouter(apphttp.Deps{
		Log:     logger,
		Backend: client,
		Enquiry: enquiry.NewForwarder(enquiryClient, logger),
		Contacts: contacts.NewService(client, contacts.Notify{
			Mailer:   mail,
			From:     cfg.Mail.From,
			FromName: cfg.Mail.FromName,
			To:       cfg.Mail.NotifyTo,
		}, logger),
		Wizards: store,
		Images:  images.Storage,
		Flash:   flash.NewCodec(cfg.FlashSecret, "flash", cfg.CookieSecure),
		Token: middleware.TokenCfg{
			Secret:     cfg.JWTSecret,
			CookieName: cfg.TokenCookie,
			Secure:     cfg.CookieSecure,
		},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("http_listen",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("storage", images.Driver),
			zap.String("mail", cfg.Mail.Driver),
		)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("http_shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
