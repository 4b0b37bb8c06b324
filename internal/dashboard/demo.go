package dashboard

import (
	"fmt"
	"time"

	"github.com/dom/league-rest-explorer/internal/domain"
)

// Static fallback datasets. Every function returns at least one row for any
// selection.

const demoChampion = "Ahri"

func DemoContests(sel domain.Selection) []domain.Tournament {
	year := sel.Year
	if year == "" {
		year = domain.DefaultYear
	}
	return []domain.Tournament{
		{
			ID:        "worlds-" + year,
			Name:      "Worlds Championship " + year,
			StartDate: year + "-09-25",
			EndDate:   year + "-11-02",
		},
		{
			ID:        "msi-" + year,
			Name:      "Mid-Season Invitational " + year,
			StartDate: year + "-05-01",
			EndDate:   year + "-05-19",
		},
	}
}

func DemoPlayers(domain.Selection) []domain.Player {
	return []domain.Player{
		{SummonerName: "Zeus", Name: "Choi Woo-je", Role: "top", Team: "T1"},
		{SummonerName: "Oner", Name: "Mun Hyeon-jun", Role: "jungle", Team: "T1"},
		{SummonerName: "Faker", Name: "Lee Sang-hyeok", Role: "mid", Team: "T1"},
		{SummonerName: "Gumayusi", Name: "Lee Min-hyeong", Role: "bottom", Team: "T1"},
		{SummonerName: "Keria", Name: "Ryu Min-seok", Role: "support", Team: "T1"},
	}
}

var demoMasteryPoints = map[string]int{
	"Ahri":    412_380,
	"Azir":    655_120,
	"Ezreal":  298_004,
	"Jinx":    187_560,
	"Kai'Sa":  241_777,
	"Lee Sin": 533_901,
	"Lux":     120_450,
	"Orianna": 389_215,
	"Thresh":  276_330,
	"Yasuo":   702_118,
}

func DemoMastery(sel domain.Selection) []domain.Mastery {
	name := sel.ChampionOr(demoChampion)
	points, ok := demoMasteryPoints[name]
	if !ok {
		points = 100_000
	}
	return []domain.Mastery{
		{
			ChampionID:   0,
			ChampionName: name,
			Level:        7,
			Points:       points,
			LastPlayed:   time.Date(2024, time.October, 12, 18, 30, 0, 0, time.UTC),
		},
	}
}

// DemoAssets describes a cached Data Dragon asset without touching the CDN.
func DemoAssets(version string) func(sel domain.Selection) []domain.Asset {
	return func(sel domain.Selection) []domain.Asset {
		id := demoChampion
		if c, ok := domain.LookupChampion(sel.Champion); ok {
			id = c.ID
		}
		return []domain.Asset{
			{
				Champion:     id,
				Version:      version,
				ImageURL:     fmt.Sprintf("https://ddragon.leagueoflegends.com/cdn/%s/img/champion/%s.png", version, id),
				CacheControl: "public, max-age=31536000",
				ETag:         `"demo-` + id + `"`,
				FromCache:    true,
			},
		}
	}
}

func DemoLayers(domain.Selection) []domain.LayerHop {
	return []domain.LayerHop{
		{Layer: "client", Component: "dashboard", Status: "sent", Duration: 0},
		{Layer: "gateway", Component: "api-gateway", Status: "200", Duration: 4 * time.Millisecond},
		{Layer: "cache", Component: "response-cache", Status: "MISS", Duration: 1 * time.Millisecond},
		{Layer: "proxy", Component: "riot-proxy", Status: "ok", Duration: 2 * time.Millisecond},
		{Layer: "origin", Component: "riot-api", Status: "200", Duration: 180 * time.Millisecond, Detail: "300 challenger entries"},
	}
}

func DemoUIConfig(domain.Selection) []domain.UIConfig {
	return []domain.UIConfig{
		{Key: "layout", Value: "grid", Description: "Render free champions as a card grid"},
		{Key: "columns", Value: "4", Description: "Cards per row"},
		{Key: "highlight", Value: "Ahri, Jinx, Thresh", Description: "Champions to badge as free this week"},
		{Key: "badge", Value: "Free this week", Description: "Badge text shown on highlighted cards"},
	}
}
