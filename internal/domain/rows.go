package domain

import "time"

// Display rows, one shape per section.

type Tournament struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type Player struct {
	SummonerName string `json:"summonerName"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Team         string `json:"team"`
}

type Mastery struct {
	ChampionID   int       `json:"championId"`
	ChampionName string    `json:"championName"`
	Level        int       `json:"level"`
	Points       int       `json:"points"`
	LastPlayed   time.Time `json:"lastPlayed"`
}

// Asset is cache metadata for a Data Dragon champion asset.
type Asset struct {
	Champion     string `json:"champion"`
	Version      string `json:"version"`
	ImageURL     string `json:"imageUrl"`
	CacheControl string `json:"cacheControl"`
	ETag         string `json:"etag"`
	FromCache    bool   `json:"fromCache"`
}

type LayerHop struct {
	Layer     string        `json:"layer"`
	Component string        `json:"component"`
	Status    string        `json:"status"`
	Duration  time.Duration `json:"duration"`
	Detail    string        `json:"detail,omitempty"`
}

type UIConfig struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
}
