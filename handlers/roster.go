package handlers

import (
	"log"

	"squad-planner-system/middleware"
	"squad-planner-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRosterRoutes(app *fiber.App, rosterService *services.RosterService, statsService *services.StatsService) {
	app.Get("/roster", rosterService.ListEndpoint)
	app.Put("/roster/:id", rosterService.UpdateEndpoint)
	app.Delete("/roster/:id", rosterService.DeleteEndpoint)
	app.Post("/roster/:id/photo", rosterService.UploadPhotoEndpoint)

	app.Get("/stats", statsService.GetStatsEndpoint)
}

func SetupFormationRoutes(app *fiber.App, formationService *services.FormationService) {
	app.Get("/formations", formationService.ListCatalogEndpoint)
	app.Get("/formations/:id", formationService.GetCatalogEntryEndpoint)

	app.Get("/saved-formations", formationService.ListSavedEndpoint)
	app.Delete("/saved-formations/:id", formationService.DeleteSavedEndpoint)
}

func SetupSyncRoutes(app *fiber.App, syncService *services.SyncService) {
	app.Get("/events", syncService.StreamChangesSSE)
	app.Delete("/data", func(c *fiber.Ctx) error {
		user := middleware.UserFromCtx(c)
		log.Printf("[Data] full wipe requested by %q (anonymous=%t)", user.DisplayName, user.IsAnonymous)
		syncService.ClearAll()
		return c.SendStatus(204)
	})
}
