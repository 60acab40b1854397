package services

import (
	"squad-planner-system/formations"

	"github.com/gofiber/fiber/v2"
)

// FormationService serves the static catalog and the user-saved
// lineup snapshots.
type FormationService struct {
	Sync *SyncService
}

func NewFormationService(syncService *SyncService) *FormationService {
	return &FormationService{Sync: syncService}
}

// ListCatalogEndpoint returns the whole catalog, or just the templates
// for one squad size when ?players=n is given.
func (s *FormationService) ListCatalogEndpoint(c *fiber.Ctx) error {
	if c.Query("players") == "" {
		return c.JSON(formations.Catalog)
	}
	return c.JSON(formations.ByPlayerCount(c.QueryInt("players")))
}

func (s *FormationService) GetCatalogEntryEndpoint(c *fiber.Ctx) error {
	f, ok := formations.ByID(c.Params("id"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "formation not found"})
	}
	return c.JSON(f)
}

func (s *FormationService) ListSavedEndpoint(c *fiber.Ctx) error {
	return c.JSON(s.Sync.SavedFormations())
}

func (s *FormationService) DeleteSavedEndpoint(c *fiber.Ctx) error {
	s.Sync.DeleteSavedFormation(c.Params("id"))
	return c.SendStatus(204)
}
