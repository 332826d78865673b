package internal

import (
	"net/http"

	"streamguard/internal/controllers"
	"streamguard/internal/providers"
	"streamguard/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/register", http.HandlerFunc(apiController.Register))
	routers.Post("/login", http.HandlerFunc(apiController.Login))
	routers.Get("/users", http.HandlerFunc(apiController.GetUsers))
	routers.Post("/profile", http.HandlerFunc(apiController.UpdateProfile))

	routers.Get("/today", http.HandlerFunc(apiController.GetToday))
	routers.Get("/progress", http.HandlerFunc(apiController.GetProgress))
	routers.Post("/checkin", http.HandlerFunc(apiController.CheckIn))

	routers.Get("/schedule", http.HandlerFunc(apiController.GetSchedule))
	routers.Post("/schedule", http.HandlerFunc(apiController.SaveSchedule))
	routers.Post("/schedule/copy", http.HandlerFunc(apiController.CopySchedule))

	routers.Get("/pin", http.HandlerFunc(apiController.GetPin))
	routers.Post("/pin", http.HandlerFunc(apiController.SetPin))

	routers.Get("/cloud", http.HandlerFunc(apiController.GetCloud))
	routers.Post("/cloud", http.HandlerFunc(apiController.SaveCloud))
	routers.Post("/cloud/verify", http.HandlerFunc(apiController.VerifyCloud))

	routers.Get("/export", http.HandlerFunc(apiController.ExportBackup))
	routers.Post("/import", http.HandlerFunc(apiController.ImportBackup))
	return routers
}
