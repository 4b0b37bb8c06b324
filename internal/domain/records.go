package domain

// Proxy endpoints accepted in the endpoint query parameter.
const (
	EndpointContests          = "contests"
	EndpointSummoners         = "summoners"
	EndpointChampionMastery   = "champion-mastery"
	EndpointChallenger        = "challenger"
	EndpointChampionRotations = "champion-rotations"
)

// Endpoints lists every endpoint the proxy serves.
var Endpoints = []string{
	EndpointContests,
	EndpointSummoners,
	EndpointChampionMastery,
	EndpointChallenger,
	EndpointChampionRotations,
}

// Envelope is the proxy response body.
type Envelope[T any] struct {
	Data []T `json:"data"`
}

// ContestRecord is a tournament as served by endpoint=contests.
type ContestRecord struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// SummonerRecord is a pro player as served by endpoint=summoners.
type SummonerRecord struct {
	SummonerName string `json:"summonerName"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Role         string `json:"role"`
	Team         string `json:"team"`
}

// MasteryRecord is a champion mastery entry as served by endpoint=champion-mastery.
type MasteryRecord struct {
	ChampionID     int    `json:"championId"`
	ChampionName   string `json:"championName"`
	ChampionLevel  int    `json:"championLevel"`
	ChampionPoints int    `json:"championPoints"`
	LastPlayTime   int64  `json:"lastPlayTime"`
}

// ChallengerRecord is a ladder entry as served by endpoint=challenger.
type ChallengerRecord struct {
	PUUID        string `json:"puuid"`
	LeaguePoints int    `json:"leaguePoints"`
	Rank         string `json:"rank"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// RotationRecord is a free-to-play champion as served by endpoint=champion-rotations.
type RotationRecord struct {
	ChampionID     int    `json:"championId"`
	ChampionName   string `json:"championName"`
	NewPlayersOnly bool   `json:"newPlayersOnly"`
}

// LayerRecord is one infrastructure hop, served when trace=true.
type LayerRecord struct {
	Layer      string  `json:"layer"`
	Component  string  `json:"component"`
	Status     string  `json:"status"`
	DurationMs float64 `json:"durationMs"`
	Detail     string  `json:"detail,omitempty"`
}

// ConfigRecord is one UI configuration directive, served when config=true.
type ConfigRecord struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
}
