package handlers

import (
	"squad-planner-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMatchRoutes(app *fiber.App, matchService *services.MatchService, squadService *services.SquadService) {
	app.Get("/matches", matchService.ListMatchesEndpoint)
	app.Get("/matches/:id", matchService.GetMatchEndpoint)
	app.Post("/matches", matchService.RecordDirectMatchEndpoint)
	app.Post("/matches/:id/ratings", matchService.SubmitRatingsEndpoint(squadService))
	app.Delete("/matches/:id", matchService.DeleteMatchEndpoint)
}

func SetupScheduleRoutes(app *fiber.App, scheduleService *services.ScheduleService) {
	app.Get("/scheduled-matches", scheduleService.ListEndpoint)
	app.Post("/scheduled-matches", scheduleService.CreateEndpoint)
	app.Delete("/scheduled-matches/:id", scheduleService.DeleteEndpoint)

	app.Post("/scheduled-matches/:id/votes", scheduleService.CastVoteEndpoint)
	app.Get("/scheduled-matches/:id/tally", scheduleService.TallyEndpoint)
	app.Post("/scheduled-matches/:id/complete", scheduleService.CompleteEndpoint)
}
