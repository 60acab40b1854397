package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"squad-planner-system/formations"
	"squad-planner-system/models"
	"squad-planner-system/utils"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrBadSquadSize        = errors.New("squad size must be between 5 and 11")
	ErrUnknownFormation    = errors.New("formation not found")
	ErrFormationSizeWrong  = errors.New("formation does not match the current squad size")
	ErrNoFormationSelected = errors.New("no formation selected")
	ErrEmptySquad          = errors.New("the active squad is empty")
)

// PlayerInput is what arrives when adding a squad member. A non-empty
// ID means an existing roster identity is being reused.
type PlayerInput struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number int    `json:"number"`
	Photo  string `json:"photo"`
}

// SquadState is the assembled view of the builder.
type SquadState struct {
	SquadSize   int             `json:"squadSize"`
	FormationID string          `json:"formationId"`
	Players     []models.Player `json:"players"`
}

// SquadService owns the in-progress lineup: squad size, formation
// selection and the shared player list (which lives in the sync mirror
// so other sessions see the same squad).
type SquadService struct {
	Sync *SyncService

	mu          sync.Mutex
	squadSize   int
	formationID string
}

func NewSquadService(syncService *SyncService) *SquadService {
	s := &SquadService{Sync: syncService, squadSize: 7}

	// Pick up the shared formation pointer from a previous session.
	if id := syncService.CurrentFormation(); id != "" {
		if f, ok := formations.ByID(id); ok {
			s.formationID = id
			s.squadSize = f.PlayerCount
		}
	}
	return s
}

func (s *SquadService) State() SquadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SquadState{
		SquadSize:   s.squadSize,
		FormationID: s.formationID,
		Players:     s.Sync.Players(),
	}
}

// SetSquadSize selects the target size and clears the formation choice,
// since templates are size-specific.
func (s *SquadService) SetSquadSize(size int) error {
	if size < 5 || size > 11 {
		return ErrBadSquadSize
	}
	s.mu.Lock()
	s.squadSize = size
	s.formationID = ""
	s.mu.Unlock()
	s.Sync.SaveCurrentFormation("")
	return nil
}

// SelectFormation picks a catalog template for the current squad size.
func (s *SquadService) SelectFormation(id string) error {
	f, ok := formations.ByID(id)
	if !ok {
		return ErrUnknownFormation
	}
	s.mu.Lock()
	if f.PlayerCount != s.squadSize {
		s.mu.Unlock()
		return ErrFormationSizeWrong
	}
	s.formationID = id
	s.mu.Unlock()
	s.Sync.SaveCurrentFormation(id)
	return nil
}

// AddPlayer appends a player to the active squad, at pitch center. A
// brand-new identity is minted and upserted into the roster; an input
// carrying a roster id reuses it untouched.
func (s *SquadService) AddPlayer(input PlayerInput) models.Player {
	player := models.Player{
		ID:       input.ID,
		Name:     input.Name,
		Number:   input.Number,
		Photo:    input.Photo,
		Position: models.PitchCenter,
	}
	if player.ID == "" {
		player.ID = utils.NewPlayerID()
		s.Sync.SaveRosterEntry(models.RosterEntry{
			ID:     player.ID,
			Name:   player.Name,
			Number: player.Number,
			Photo:  player.Photo,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sync.SavePlayers(append(s.Sync.Players(), player))
	return player
}

// MovePlayer clamps the coordinates into [0,100] and overwrites that
// player's position. An unknown id is a no-op.
func (s *SquadService) MovePlayer(playerID string, x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	players := s.Sync.Players()
	touched := false
	for i, p := range players {
		if p.ID == playerID {
			players[i].Position = models.Position{X: x, Y: y}.Clamped()
			touched = true
			break
		}
	}
	if touched {
		s.Sync.SavePlayers(players)
	}
}

// UpdatePlayer edits a squad member in place. Nil fields are untouched.
func (s *SquadService) UpdatePlayer(playerID string, name *string, number *int, photo *string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	players := s.Sync.Players()
	touched := false
	for i, p := range players {
		if p.ID != playerID {
			continue
		}
		if name != nil {
			players[i].Name = *name
		}
		if number != nil {
			players[i].Number = *number
		}
		if photo != nil {
			players[i].Photo = *photo
		}
		touched = true
		break
	}
	if touched {
		s.Sync.SavePlayers(players)
	}
}

// ApplyFormation assigns the selected template's coordinates to squad
// members by index: the i-th player takes the i-th slot. Extra slots go
// unused; extra players keep their current position.
func (s *SquadService) ApplyFormation() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.formationID == "" {
		return ErrNoFormationSelected
	}
	f, ok := formations.ByID(s.formationID)
	if !ok {
		return ErrUnknownFormation
	}

	players := s.Sync.Players()
	for i := range players {
		if i < len(f.Positions) {
			players[i].Position = f.Positions[i]
		}
	}
	s.Sync.SavePlayers(players)
	return nil
}

// RemovePlayer drops a player from the active squad only; the roster
// entry, if any, stays.
func (s *SquadService) RemovePlayer(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	players := s.Sync.Players()
	kept := players[:0]
	for _, p := range players {
		if p.ID != playerID {
			kept = append(kept, p)
		}
	}
	if len(kept) != len(players) {
		s.Sync.SavePlayers(kept)
	}
}

// ResetSquad clears the active squad and the formation selection. The
// roster and the match ledger are untouched.
func (s *SquadService) ResetSquad() {
	s.mu.Lock()
	s.formationID = ""
	s.mu.Unlock()
	s.Sync.SavePlayers(nil)
	s.Sync.SaveCurrentFormation("")
}

// SaveFormationSnapshot stores the current squad as a reusable lineup
// under a user-given name.
func (s *SquadService) SaveFormationSnapshot(name string) (models.SavedFormation, error) {
	s.mu.Lock()
	formationID := s.formationID
	s.mu.Unlock()

	if formationID == "" {
		return models.SavedFormation{}, ErrNoFormationSelected
	}
	players := s.Sync.Players()
	if len(players) == 0 {
		return models.SavedFormation{}, ErrEmptySquad
	}

	saved := models.SavedFormation{
		ID:          utils.NewSavedFormationID(name),
		Name:        name,
		FormationID: formationID,
		Players:     players,
		CreatedAt:   time.Now().UTC(),
	}
	s.Sync.SaveSavedFormation(saved)
	return saved, nil
}

// LoadFormationSnapshot restores squad size, formation selection and
// the player list from a saved lineup.
func (s *SquadService) LoadFormationSnapshot(id string) error {
	saved, ok := s.Sync.SavedFormationByID(id)
	if !ok {
		return fmt.Errorf("saved formation %s not found", id)
	}

	s.mu.Lock()
	s.squadSize = len(saved.Players)
	s.formationID = saved.FormationID
	s.mu.Unlock()

	s.Sync.SavePlayers(saved.Players)
	s.Sync.SaveCurrentFormation(saved.FormationID)
	return nil
}

// --- HTTP endpoints ----------------------------------------------------

func (s *SquadService) GetSquad(c *fiber.Ctx) error {
	return c.JSON(s.State())
}

func (s *SquadService) SetSquadSizeEndpoint(c *fiber.Ctx) error {
	var body struct {
		Size int `json:"size"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := s.SetSquadSize(body.Size); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s.State())
}

func (s *SquadService) SelectFormationEndpoint(c *fiber.Ctx) error {
	var body struct {
		FormationID string `json:"formationId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := s.SelectFormation(body.FormationID); err != nil {
		status := 400
		if errors.Is(err, ErrUnknownFormation) {
			status = 404
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s.State())
}

func (s *SquadService) AddPlayerEndpoint(c *fiber.Ctx) error {
	var body PlayerInput
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	if body.ID == "" && body.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required for a new player"})
	}
	player := s.AddPlayer(body)
	return c.Status(201).JSON(player)
}

func (s *SquadService) MovePlayerEndpoint(c *fiber.Ctx) error {
	var body struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	s.MovePlayer(c.Params("id"), body.X, body.Y)
	return c.JSON(s.State())
}

func (s *SquadService) UpdatePlayerEndpoint(c *fiber.Ctx) error {
	var body struct {
		Name   *string `json:"name"`
		Number *int    `json:"number"`
		Photo  *string `json:"photo"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	s.UpdatePlayer(c.Params("id"), body.Name, body.Number, body.Photo)
	return c.JSON(s.State())
}

func (s *SquadService) ApplyFormationEndpoint(c *fiber.Ctx) error {
	if err := s.ApplyFormation(); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s.State())
}

func (s *SquadService) RemovePlayerEndpoint(c *fiber.Ctx) error {
	s.RemovePlayer(c.Params("id"))
	return c.JSON(s.State())
}

func (s *SquadService) ResetSquadEndpoint(c *fiber.Ctx) error {
	s.ResetSquad()
	return c.JSON(s.State())
}

func (s *SquadService) SaveFormationEndpoint(c *fiber.Ctx) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}
	saved, err := s.SaveFormationSnapshot(body.Name)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(saved)
}

func (s *SquadService) LoadFormationEndpoint(c *fiber.Ctx) error {
	if err := s.LoadFormationSnapshot(c.Params("id")); err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s.State())
}
