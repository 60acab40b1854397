package handlers

import (
	"squad-planner-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSquadRoutes(app *fiber.App, squadService *services.SquadService, matchService *services.MatchService) {
	app.Get("/squad", squadService.GetSquad)
	app.Post("/squad/size", squadService.SetSquadSizeEndpoint)
	app.Post("/squad/formation", squadService.SelectFormationEndpoint)
	app.Post("/squad/apply-formation", squadService.ApplyFormationEndpoint)
	app.Post("/squad/reset", squadService.ResetSquadEndpoint)

	app.Post("/squad/players", squadService.AddPlayerEndpoint)
	app.Patch("/squad/players/:id", squadService.UpdatePlayerEndpoint)
	app.Patch("/squad/players/:id/position", squadService.MovePlayerEndpoint)
	app.Delete("/squad/players/:id", squadService.RemovePlayerEndpoint)

	// lineup snapshots
	app.Post("/squad/save-formation", squadService.SaveFormationEndpoint)
	app.Post("/squad/load-formation/:id", squadService.LoadFormationEndpoint)

	// the builder-to-ledger handoff
	app.Post("/squad/prepare", matchService.PrepareFromSquadEndpoint(squadService))
}
