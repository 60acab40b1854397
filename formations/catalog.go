// formations/catalog.go
package formations

import "squad-planner-system/models"

// Catalog holds the hand-authored formation templates for squad sizes
// 5 through 11. Declaration order is the order callers see.
var Catalog = []models.Formation{
	{
		ID:          "5-1-2-1",
		Name:        "1-2-1",
		PlayerCount: 5,
		Description: "Classic five-a-side shape",
		Positions: []models.Position{
			{X: 50, Y: 10}, // keeper
			{X: 30, Y: 40}, // left back
			{X: 70, Y: 40}, // right back
			{X: 50, Y: 70}, // striker
			{X: 50, Y: 55}, // midfielder
		},
	},
	{
		ID:          "6-1-2-2",
		Name:        "1-2-2",
		PlayerCount: 6,
		Description: "Balanced six-a-side shape",
		Positions: []models.Position{
			{X: 50, Y: 10},
			{X: 30, Y: 35},
			{X: 70, Y: 35},
			{X: 35, Y: 60},
			{X: 65, Y: 60},
			{X: 50, Y: 47},
		},
	},
	{
		ID:          "7-1-2-3",
		Name:        "1-2-3",
		PlayerCount: 7,
		Description: "Attack-minded seven-a-side",
		Positions: []models.Position{
			{X: 50, Y: 10},
			{X: 30, Y: 30},
			{X: 70, Y: 30},
			{X: 25, Y: 60},
			{X: 50, Y: 65},
			{X: 75, Y: 60},
			{X: 50, Y: 45},
		},
	},
	{
		ID:          "7-1-3-2",
		Name:        "1-3-2",
		PlayerCount: 7,
		Description: "Defensive seven-a-side",
		Positions: []models.Position{
			{X: 50, Y: 10},
			{X: 25, Y: 35},
			{X: 50, Y: 32},
			{X: 75, Y: 35},
			{X: 35, Y: 60},
			{X: 65, Y: 60},
			{X: 50, Y: 50},
		},
	},
	{
		ID:          "8-1-2-3-1",
		Name:        "1-2-3-1",
		PlayerCount: 8,
		Description: "Classic eight-a-side shape",
		Positions: []models.Position{
			{X: 50, Y: 10},
			{X: 30, Y: 28},
			{X: 70, Y: 28},
			{X: 25, Y: 50},
			{X: 50, Y: 48},
			{X: 75, Y: 50},
			{X: 50, Y: 70},
			{X: 50, Y: 38},
		},
	},
	{
		ID:          "9-1-3-2-3",
		Name:        "1-3-2-3",
		PlayerCount: 9,
		Description: "Balanced nine-a-side shape",
		Positions: []models.Position{
			{X: 50, Y: 10},
			{X: 25, Y: 30},
			{X: 50, Y: 28},
			{X: 75, Y: 30},
			{X: 35, Y: 50},
			{X: 65, Y: 50},
			{X: 25, Y: 68},
			{X: 50, Y: 70},
			{X: 75, Y: 68},
		},
	},
	{
		ID:          "10-1-3-3-2",
		Name:        "1-3-3-2",
		PlayerCount: 10,
		Description: "Compact ten-a-side shape",
		Positions: []models.Position{
			{X: 50, Y: 10},
			{X: 25, Y: 28},
			{X: 50, Y: 26},
			{X: 75, Y: 28},
			{X: 25, Y: 48},
			{X: 50, Y: 46},
			{X: 75, Y: 48},
			{X: 35, Y: 65},
			{X: 65, Y: 65},
			{X: 50, Y: 36},
		},
	},
	{
		ID:          "11-1-4-3-3",
		Name:        "1-4-3-3",
		PlayerCount: 11,
		Description: "Full eleven - attacking",
		Positions: []models.Position{
			{X: 50, Y: 10},
			{X: 20, Y: 28},
			{X: 40, Y: 26},
			{X: 60, Y: 26},
			{X: 80, Y: 28},
			{X: 30, Y: 48},
			{X: 50, Y: 46},
			{X: 70, Y: 48},
			{X: 20, Y: 68},
			{X: 50, Y: 70},
			{X: 80, Y: 68},
		},
	},
	{
		ID:          "11-1-4-4-2",
		Name:        "1-4-4-2",
		PlayerCount: 11,
		Description: "Full eleven - balanced",
		Positions: []models.Position{
			{X: 50, Y: 10},
			{X: 20, Y: 28},
			{X: 40, Y: 26},
			{X: 60, Y: 26},
			{X: 80, Y: 28},
			{X: 20, Y: 48},
			{X: 40, Y: 46},
			{X: 60, Y: 46},
			{X: 80, Y: 48},
			{X: 40, Y: 68},
			{X: 60, Y: 68},
		},
	},
	{
		ID:          "11-1-3-5-2",
		Name:        "1-3-5-2",
		PlayerCount: 11,
		Description: "Full eleven - midfield heavy",
		Positions: []models.Position{
			{X: 50, Y: 10},
			{X: 30, Y: 26},
			{X: 50, Y: 24},
			{X: 70, Y: 26},
			{X: 15, Y: 48},
			{X: 35, Y: 46},
			{X: 50, Y: 44},
			{X: 65, Y: 46},
			{X: 85, Y: 48},
			{X: 40, Y: 68},
			{X: 60, Y: 68},
		},
	},
}

// ByPlayerCount returns the catalog formations for a squad size, in
// declaration order. The slice is empty for sizes with no template.
func ByPlayerCount(count int) []models.Formation {
	var out []models.Formation
	for _, f := range Catalog {
		if f.PlayerCount == count {
			out = append(out, f)
		}
	}
	return out
}

// ByID returns the formation with the given id, or false when unknown.
func ByID(id string) (models.Formation, bool) {
	for _, f := range Catalog {
		if f.ID == id {
			return f, true
		}
	}
	return models.Formation{}, false
}
