package main

import (
	"log"

	"github.com/tiansito98/calorie-vision-tracker/config"
	"github.com/tiansito98/calorie-vision-tracker/controllers"
	"github.com/tiansito98/calorie-vision-tracker/routes"
	"github.com/tiansito98/calorie-vision-tracker/services"
	"github.com/tiansito98/calorie-vision-tracker/utils"

	"github.com/sirupsen/logrus"
)

func main() {
	config.InitDB()
	utils.InitS3()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	hub := services.NewRealtimeHub()
	summarySvc := services.NewSummaryService(config.DB)
	coordinator := services.NewCoordinator(config.DB, summarySvc, hub, logger)
	entrySvc := services.NewEntryService(config.DB, coordinator, logger)
	authSvc := services.NewAuthService(config.DB)
	userSvc := services.NewUserService(config.DB)

	mailer, err := utils.NewSESMailer()
	if err != nil {
		log.Fatalf("mailer init failed: %v", err)
	}
	digestSvc := services.NewDigestService(config.DB, mailer, logger)

	estimator, err := services.NewRekognitionEstimator(services.NewNutritionClient())
	if err != nil {
		log.Fatalf("estimator init failed: %v", err)
	}

	r := routes.SetupRouter(routes.Controllers{
		Auth:     controllers.NewAuthController(authSvc),
		User:     controllers.NewUserController(userSvc),
		Entry:    controllers.NewEntryController(entrySvc, estimator),
		Summary:  controllers.NewSummaryController(coordinator, summarySvc),
		Digest:   controllers.NewDigestController(digestSvc),
		Realtime: controllers.NewRealtimeController(hub),
	})
	r.Run(":8080")
}
