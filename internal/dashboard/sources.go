package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dom/league-rest-explorer/internal/client"
	"github.com/dom/league-rest-explorer/internal/ddragon"
	"github.com/dom/league-rest-explorer/internal/domain"
)

// ProxyLoader builds a Load func that queries one proxy endpoint and maps
// every record of the data array into a display row. A record that fails to
// map fails the whole load.
func ProxyLoader[R, T any](c *client.Client, query func(domain.Selection) client.Query, mapRow func(R) (T, error)) func(context.Context, domain.Selection) ([]T, error) {
	return func(ctx context.Context, sel domain.Selection) ([]T, error) {
		q := query(sel)
		raw, err := c.Get(ctx, q)
		if err != nil {
			return nil, err
		}
		records, err := client.Decode[R](raw)
		if err != nil {
			return nil, err
		}

		rows := make([]T, 0, len(records))
		for i, r := range records {
			row, err := mapRow(r)
			if err != nil {
				return nil, fmt.Errorf("%w: %s record %d: %v", client.ErrMalformed, q.Endpoint, i, err)
			}
			rows = append(rows, row)
		}
		return rows, nil
	}
}

func ContestsSource(c *client.Client) Source[domain.Tournament] {
	return Source[domain.Tournament]{
		Section: domain.SectionContests,
		Load: ProxyLoader(c,
			func(sel domain.Selection) client.Query {
				return client.Query{Endpoint: domain.EndpointContests, Year: sel.Year}
			},
			MapContest),
		Demo: DemoContests,
	}
}

func MapContest(r domain.ContestRecord) (domain.Tournament, error) {
	if r.Name == "" {
		return domain.Tournament{}, fmt.Errorf("contest %q has no name", r.ID)
	}
	return domain.Tournament{ID: r.ID, Name: r.Name, StartDate: r.StartDate, EndDate: r.EndDate}, nil
}

func PlayersSource(c *client.Client) Source[domain.Player] {
	return Source[domain.Player]{
		Section: domain.SectionChampions,
		Load: ProxyLoader(c,
			func(sel domain.Selection) client.Query {
				return client.Query{Endpoint: domain.EndpointSummoners, Year: sel.Year}
			},
			MapSummoner),
		Demo: DemoPlayers,
	}
}

func MapSummoner(r domain.SummonerRecord) (domain.Player, error) {
	if r.SummonerName == "" {
		return domain.Player{}, fmt.Errorf("player has no summoner name")
	}
	return domain.Player{
		SummonerName: r.SummonerName,
		Name:         strings.TrimSpace(r.FirstName + " " + r.LastName),
		Role:         r.Role,
		Team:         r.Team,
	}, nil
}

func MasterySource(c *client.Client) Source[domain.Mastery] {
	return Source[domain.Mastery]{
		Section: domain.SectionChampionDetails,
		Load: ProxyLoader(c,
			func(sel domain.Selection) client.Query {
				return client.Query{Endpoint: domain.EndpointChampionMastery, Champion: sel.Champion}
			},
			MapMastery),
		Demo: DemoMastery,
	}
}

func MapMastery(r domain.MasteryRecord) (domain.Mastery, error) {
	if r.ChampionID == 0 && r.ChampionName == "" {
		return domain.Mastery{}, fmt.Errorf("mastery record has no champion")
	}
	m := domain.Mastery{
		ChampionID:   r.ChampionID,
		ChampionName: r.ChampionName,
		Level:        r.ChampionLevel,
		Points:       r.ChampionPoints,
	}
	if r.LastPlayTime > 0 {
		m.LastPlayed = time.UnixMilli(r.LastPlayTime).UTC()
	}
	return m, nil
}

// AssetsSource reads straight from the Data Dragon CDN rather than the proxy.
func AssetsSource(dd *ddragon.Client) Source[domain.Asset] {
	return Source[domain.Asset]{
		Section: domain.SectionDataDragon,
		Load: func(ctx context.Context, sel domain.Selection) ([]domain.Asset, error) {
			id := demoChampion
			if sel.HasChampion() {
				c, ok := domain.LookupChampion(sel.Champion)
				if !ok {
					return nil, fmt.Errorf("%w: %s", domain.ErrUnknownChampion, sel.Champion)
				}
				id = c.ID
			}
			asset, err := dd.ChampionAsset(ctx, id)
			if err != nil {
				return nil, err
			}
			return []domain.Asset{asset}, nil
		},
		Demo: DemoAssets(dd.Version()),
	}
}

func LayersSource(c *client.Client) Source[domain.LayerHop] {
	return Source[domain.LayerHop]{
		Section: domain.SectionChallenger,
		Load: ProxyLoader(c,
			func(domain.Selection) client.Query {
				return client.Query{Endpoint: domain.EndpointChallenger, Trace: true}
			},
			MapLayer),
		Demo: DemoLayers,
	}
}

func MapLayer(r domain.LayerRecord) (domain.LayerHop, error) {
	if r.Layer == "" {
		return domain.LayerHop{}, fmt.Errorf("trace hop has no layer")
	}
	return domain.LayerHop{
		Layer:     r.Layer,
		Component: r.Component,
		Status:    r.Status,
		Duration:  time.Duration(r.DurationMs * float64(time.Millisecond)),
		Detail:    r.Detail,
	}, nil
}

func UIConfigSource(c *client.Client) Source[domain.UIConfig] {
	return Source[domain.UIConfig]{
		Section: domain.SectionDynamic,
		Load: ProxyLoader(c,
			func(domain.Selection) client.Query {
				return client.Query{Endpoint: domain.EndpointChampionRotations, Config: true}
			},
			MapConfig),
		Demo: DemoUIConfig,
	}
}

func MapConfig(r domain.ConfigRecord) (domain.UIConfig, error) {
	if r.Key == "" {
		return domain.UIConfig{}, fmt.Errorf("config directive has no key")
	}
	return domain.UIConfig{Key: r.Key, Value: r.Value, Description: r.Description}, nil
}

// Sources returns one runner per registered section, in step order.
func Sources(proxy *client.Client, dd *ddragon.Client) []Runner {
	return []Runner{
		ContestsSource(proxy),
		PlayersSource(proxy),
		MasterySource(proxy),
		AssetsSource(dd),
		LayersSource(proxy),
		UIConfigSource(proxy),
	}
}
