package main

import (
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"devasthan/internal/config"
	"devasthan/internal/email/noop"
	"devasthan/internal/email/ses"
	"devasthan/internal/handler"
	"devasthan/internal/metrics"
	"devasthan/internal/port"
	"devasthan/internal/repository/postgres"
	"devasthan/internal/router"
	"devasthan/internal/service"
	s3storage "devasthan/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	orgRepo := postgres.NewOrgRepo(db)
	userRepo := postgres.NewUserRepo(db)
	rangeRepo := postgres.NewRangeRepo(db)
	donorRepo := postgres.NewDonorRepo(db)
	donationRepo := postgres.NewDonationRepo(db)

	// Initialize storage
	storage, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize email sender
	var sender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		sender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		sender = noop.NewNoopSender()
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, orgRepo, cfg.JWT)
	orgSvc := service.NewOrgService(orgRepo)
	userSvc := service.NewUserService(userRepo)
	rangeSvc := service.NewRangeService(rangeRepo, m)
	resolverSvc := service.NewResolverService(donorRepo)
	donationSvc := service.NewDonationService(donationRepo, resolverSvc, rangeSvc, sender, orgRepo, m)
	donorSvc := service.NewDonorService(donorRepo, donationRepo)
	exportSvc := service.NewExportService(donationRepo, storage, cfg.S3.Bucket, cfg.S3.PresignExpiry)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, router.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		Org:      handler.NewOrgHandler(orgSvc, userSvc),
		Range:    handler.NewRangeHandler(rangeSvc),
		Donation: handler.NewDonationHandler(donationSvc),
		Donor:    handler.NewDonorHandler(donorSvc, resolverSvc),
		Export:   handler.NewExportHandler(exportSvc),
		Health:   handler.NewHealthHandler(db),
	})

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
