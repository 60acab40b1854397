package services

import (
	"squad-planner-system/models"
	"squad-planner-system/utils"

	"github.com/gofiber/fiber/v2"
)

// RosterService manages the persistent player catalog. Deleting an
// entry never touches match history: lineups carry their own copies of
// name and number.
type RosterService struct {
	Sync *SyncService
}

func NewRosterService(syncService *SyncService) *RosterService {
	return &RosterService{Sync: syncService}
}

func (s *RosterService) ListEndpoint(c *fiber.Ctx) error {
	return c.JSON(s.Sync.Roster())
}

func (s *RosterService) UpdateEndpoint(c *fiber.Ctx) error {
	id := c.Params("id")
	var body struct {
		Name   *string `json:"name"`
		Number *int    `json:"number"`
		Photo  *string `json:"photo"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}

	var current *models.RosterEntry
	for _, e := range s.Sync.Roster() {
		if e.ID == id {
			entry := e
			current = &entry
			break
		}
	}
	if current == nil {
		return c.Status(404).JSON(fiber.Map{"error": "roster entry not found"})
	}

	if body.Name != nil {
		current.Name = *body.Name
	}
	if body.Number != nil {
		current.Number = *body.Number
	}
	if body.Photo != nil {
		current.Photo = *body.Photo
	}
	updated := s.Sync.SaveRosterEntry(*current)
	return c.JSON(updated)
}

func (s *RosterService) DeleteEndpoint(c *fiber.Ctx) error {
	s.Sync.DeleteRosterEntry(c.Params("id"))
	return c.SendStatus(204)
}

// UploadPhotoEndpoint attaches an uploaded image to a roster entry.
func (s *RosterService) UploadPhotoEndpoint(c *fiber.Ctx) error {
	id := c.Params("id")

	var current *models.RosterEntry
	for _, e := range s.Sync.Roster() {
		if e.ID == id {
			entry := e
			current = &entry
			break
		}
	}
	if current == nil {
		return c.Status(404).JSON(fiber.Map{"error": "roster entry not found"})
	}

	if !utils.PhotoStoreReady() {
		return c.Status(503).JSON(fiber.Map{"error": "photo storage is not configured"})
	}

	photo, err := c.FormFile("photo")
	if err != nil || photo.Size == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "photo file is required"})
	}

	url, err := utils.UploadPlayerPhoto(photo, id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to upload photo"})
	}

	current.Photo = url
	updated := s.Sync.SaveRosterEntry(*current)
	return c.JSON(updated)
}
