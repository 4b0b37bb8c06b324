package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	EsportsBaseURL   = "https://esports-api.lolesports.com/persisted/gw"
	QueueRankedSolo  = "RANKED_SOLO_5x5"
	esportsLocale    = "en-US"
	riotTokenHeader  = "X-Riot-Token"
	esportsKeyHeader = "x-api-key"
)

var (
	ErrUnauthorized = errors.New("riot api rejected credentials")
	ErrNotFound     = errors.New("riot api resource not found")
	ErrUpstream     = errors.New("riot api request failed")
)

// PlatformBaseURL returns the regional platform host, e.g. https://na1.api.riotgames.com.
func PlatformBaseURL(platform string) string {
	return fmt.Sprintf("https://%s.api.riotgames.com", platform)
}

type Options struct {
	PlatformBaseURL string
	EsportsBaseURL  string
	APIKey          string
	EsportsAPIKey   string
	Timeout         time.Duration
}

// Client calls the Riot platform API and the LoL esports API.
type Client struct {
	platformURL string
	esportsURL  string
	apiKey      string
	esportsKey  string
	httpClient  *http.Client
}

func NewClient(opts Options) *Client {
	if opts.EsportsBaseURL == "" {
		opts.EsportsBaseURL = EsportsBaseURL
	}
	return &Client{
		platformURL: opts.PlatformBaseURL,
		esportsURL:  opts.EsportsBaseURL,
		apiKey:      opts.APIKey,
		esportsKey:  opts.EsportsAPIKey,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// Esports API payloads

type Tournament struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type tournamentsResponse struct {
	Data struct {
		Leagues []struct {
			Tournaments []Tournament `json:"tournaments"`
		} `json:"leagues"`
	} `json:"data"`
}

type Player struct {
	ID           string `json:"id"`
	SummonerName string `json:"summonerName"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Role         string `json:"role"`
}

type Team struct {
	ID      string   `json:"id"`
	Slug    string   `json:"slug"`
	Name    string   `json:"name"`
	Code    string   `json:"code"`
	Players []Player `json:"players"`
}

type teamsResponse struct {
	Data struct {
		Teams []Team `json:"teams"`
	} `json:"data"`
}

// Platform API payloads

type Mastery struct {
	PUUID          string `json:"puuid"`
	ChampionID     int    `json:"championId"`
	ChampionLevel  int    `json:"championLevel"`
	ChampionPoints int    `json:"championPoints"`
	LastPlayTime   int64  `json:"lastPlayTime"`
}

type LeagueEntry struct {
	PUUID        string `json:"puuid"`
	SummonerID   string `json:"summonerId"`
	LeaguePoints int    `json:"leaguePoints"`
	Rank         string `json:"rank"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

type League struct {
	Tier    string        `json:"tier"`
	Name    string        `json:"name"`
	Queue   string        `json:"queue"`
	Entries []LeagueEntry `json:"entries"`
}

type Rotation struct {
	FreeChampionIDs              []int `json:"freeChampionIds"`
	FreeChampionIDsForNewPlayers []int `json:"freeChampionIdsForNewPlayers"`
	MaxNewPlayerLevel            int   `json:"maxNewPlayerLevel"`
}

// Tournaments lists the tournaments of an esports league.
func (c *Client) Tournaments(ctx context.Context, leagueID string) ([]Tournament, error) {
	q := url.Values{"hl": {esportsLocale}, "leagueId": {leagueID}}
	var resp tournamentsResponse
	if err := c.esports(ctx, "/getTournamentsForLeague", q, &resp); err != nil {
		return nil, err
	}
	var out []Tournament
	for _, l := range resp.Data.Leagues {
		out = append(out, l.Tournaments...)
	}
	return out, nil
}

// Team fetches a team and its roster by slug.
func (c *Client) Team(ctx context.Context, slug string) (*Team, error) {
	q := url.Values{"hl": {esportsLocale}, "id": {slug}}
	var resp teamsResponse
	if err := c.esports(ctx, "/getTeams", q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data.Teams) == 0 {
		return nil, fmt.Errorf("%w: team %s", ErrNotFound, slug)
	}
	return &resp.Data.Teams[0], nil
}

// TopMasteries returns a player's highest mastery champions.
func (c *Client) TopMasteries(ctx context.Context, puuid string, count int) ([]Mastery, error) {
	path := fmt.Sprintf("/lol/champion-mastery/v4/champion-masteries/by-puuid/%s/top", url.PathEscape(puuid))
	var out []Mastery
	err := c.platform(ctx, path, url.Values{"count": {fmt.Sprint(count)}}, &out)
	return out, err
}

// ChampionMastery returns a player's mastery of one champion, by numeric key.
func (c *Client) ChampionMastery(ctx context.Context, puuid, championKey string) (*Mastery, error) {
	path := fmt.Sprintf("/lol/champion-mastery/v4/champion-masteries/by-puuid/%s/by-champion/%s",
		url.PathEscape(puuid), url.PathEscape(championKey))
	var out Mastery
	if err := c.platform(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChallengerLeague returns the challenger ladder for a queue.
func (c *Client) ChallengerLeague(ctx context.Context, queue string) (*League, error) {
	var out League
	if err := c.platform(ctx, "/lol/league/v4/challengerleagues/by-queue/"+url.PathEscape(queue), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChampionRotations returns this week's free champion rotation.
func (c *Client) ChampionRotations(ctx context.Context) (*Rotation, error) {
	var out Rotation
	if err := c.platform(ctx, "/lol/platform/v3/champion-rotations", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) platform(ctx context.Context, path string, q url.Values, v any) error {
	if c.apiKey == "" {
		return fmt.Errorf("%w: no api key configured", ErrUnauthorized)
	}
	return c.get(ctx, c.platformURL+path, q, riotTokenHeader, c.apiKey, v)
}

func (c *Client) esports(ctx context.Context, path string, q url.Values, v any) error {
	if c.esportsKey == "" {
		return fmt.Errorf("%w: no esports api key configured", ErrUnauthorized)
	}
	return c.get(ctx, c.esportsURL+path, q, esportsKeyHeader, c.esportsKey, v)
}

func (c *Client) get(ctx context.Context, rawURL string, q url.Values, keyHeader, key string, v any) error {
	if len(q) > 0 {
		rawURL += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set(keyHeader, key)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w (status %d)", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, req.URL.Path)
	case resp.StatusCode != http.StatusOK:
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w (status %d): %s", ErrUpstream, resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	return nil
}
