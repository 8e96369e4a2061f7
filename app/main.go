package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/harutoki/blogdeck/internal/activityservice"
	"github.com/harutoki/blogdeck/internal/adminservice"
	"github.com/harutoki/blogdeck/internal/blogservice"
	"github.com/harutoki/blogdeck/internal/captchaservice"
	"github.com/harutoki/blogdeck/internal/common"
	"github.com/harutoki/blogdeck/internal/profileservice"
)

type application struct {
	config          *Config
	logger          *slog.Logger
	blogService     *blogservice.BlogService
	adminService    *adminservice.AdminService
	profileService  *profileservice.ProfileService
	captchaService  *captchaservice.CaptchaService
	activityService *activityservice.ActivityService
	broker          *common.MessageBroker
}

func main() {
	// Initialize the logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load the configuration
	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize the public database pool
	publicDB, err := common.NewPublicDB(cfg.DBHost, cfg.DBPort, cfg.DBPublicUser, cfg.DBPublicPassword, cfg.DBName, 10, 5, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(publicDB.DB)

	// Initialize the service-role pool. Only the admin service gets it.
	adminDB, err := common.NewAdminDB(cfg.DBHost, cfg.DBPort, cfg.DBServiceUser, cfg.DBServicePassword, cfg.DBName, 5, 2, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database with the service role", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(adminDB.DB)

	// Initialize the message broker
	URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort)
	broker, err := common.NewMessageBroker(URI)
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	err = common.SetupEngagementExchange(broker)
	if err != nil {
		logger.Error("failed to setup the engagement exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cache := common.NewCache(time.Minute, 5*time.Minute)

	// Initialize the services
	app := &application{
		config:          cfg,
		logger:          logger,
		blogService:     blogservice.NewBlogService(publicDB, cache, broker, logger),
		adminService:    adminservice.NewAdminService(adminDB),
		profileService:  profileservice.NewProfileService(publicDB),
		captchaService:  captchaservice.NewCaptchaService(cfg.CaptchaURL, cfg.CaptchaSecret, http.DefaultClient),
		activityService: activityservice.NewActivityService(broker, logger),
		broker:          broker,
	}

	// Initialize the consumer
	app.activityService.LogEngagement()

	// Start the HTTP server
	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
