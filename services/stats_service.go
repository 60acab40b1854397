package services

import (
	"sort"

	"squad-planner-system/models"

	"github.com/gofiber/fiber/v2"
)

// StatsService derives player statistics from the match ledger.
type StatsService struct {
	Sync *SyncService
}

func NewStatsService(syncService *SyncService) *StatsService {
	return &StatsService{Sync: syncService}
}

// ComputePlayerStats folds every lineup appearance grouped by playerId.
// Every appearance counts toward totalMatches; only rated appearances
// feed allRatings and the average. Players never rated are dropped from
// the ranked output. Ranking is averageRating descending, ties broken
// by totalMatches descending.
func ComputePlayerStats(matches []models.Match) []models.PlayerStats {
	byPlayer := make(map[string]*models.PlayerStats)
	var order []string

	for _, match := range matches {
		for _, player := range match.Lineup {
			stats, ok := byPlayer[player.PlayerID]
			if !ok {
				stats = &models.PlayerStats{
					PlayerID:   player.PlayerID,
					PlayerName: player.PlayerName,
				}
				byPlayer[player.PlayerID] = stats
				order = append(order, player.PlayerID)
			}
			stats.TotalMatches++
			if player.Rating != nil {
				stats.AllRatings = append(stats.AllRatings, *player.Rating)
				sum := 0.0
				for _, r := range stats.AllRatings {
					sum += r
				}
				stats.AverageRating = sum / float64(len(stats.AllRatings))
			}
		}
	}

	out := make([]models.PlayerStats, 0, len(byPlayer))
	for _, id := range order {
		if stats := byPlayer[id]; len(stats.AllRatings) > 0 {
			out = append(out, *stats)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AverageRating != out[j].AverageRating {
			return out[i].AverageRating > out[j].AverageRating
		}
		return out[i].TotalMatches > out[j].TotalMatches
	})
	return out
}

// StatsSummary is the team-wide footer of the stats page.
type StatsSummary struct {
	RatedPlayers      int     `json:"ratedPlayers"`
	TeamAverageRating float64 `json:"teamAverageRating"`
	TotalAppearances  int     `json:"totalAppearances"`
}

func Summarize(stats []models.PlayerStats) StatsSummary {
	summary := StatsSummary{RatedPlayers: len(stats)}
	if len(stats) == 0 {
		return summary
	}
	sum := 0.0
	for _, s := range stats {
		sum += s.AverageRating
		summary.TotalAppearances += s.TotalMatches
	}
	summary.TeamAverageRating = sum / float64(len(stats))
	return summary
}

// --- HTTP endpoint -----------------------------------------------------

func (s *StatsService) GetStatsEndpoint(c *fiber.Ctx) error {
	stats := ComputePlayerStats(s.Sync.Matches())
	return c.JSON(fiber.Map{
		"players": stats,
		"summary": Summarize(stats),
	})
}
