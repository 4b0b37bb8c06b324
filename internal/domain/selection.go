package domain

import (
	"golang.org/x/text/cases"
)

// Years are the seasons the dashboard can be pointed at.
var Years = []string{"2022", "2023", "2024", "2025"}

// DefaultYear is the year a fresh selection starts on.
const DefaultYear = "2024"

// ChampionOption is an entry of the fixed champion list. ID is the Data
// Dragon identifier, which differs from the display name for some champions.
type ChampionOption struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

var championOptions = []ChampionOption{
	{Name: "Ahri", ID: "Ahri"},
	{Name: "Azir", ID: "Azir"},
	{Name: "Ezreal", ID: "Ezreal"},
	{Name: "Jinx", ID: "Jinx"},
	{Name: "Kai'Sa", ID: "Kaisa"},
	{Name: "Lee Sin", ID: "LeeSin"},
	{Name: "Lux", ID: "Lux"},
	{Name: "Orianna", ID: "Orianna"},
	{Name: "Thresh", ID: "Thresh"},
	{Name: "Yasuo", ID: "Yasuo"},
}

// ChampionOptions returns the fixed champion list.
func ChampionOptions() []ChampionOption {
	out := make([]ChampionOption, len(championOptions))
	copy(out, championOptions)
	return out
}

// LookupChampion matches user input against the fixed list, ignoring case.
// Both display names ("Lee Sin") and Data Dragon IDs ("LeeSin") match.
func LookupChampion(input string) (ChampionOption, bool) {
	fold := cases.Fold()
	want := fold.String(input)
	for _, c := range championOptions {
		if fold.String(c.Name) == want || fold.String(c.ID) == want {
			return c, true
		}
	}
	return ChampionOption{}, false
}

// ValidYear reports whether year is one of the selectable seasons.
func ValidYear(year string) bool {
	for _, y := range Years {
		if y == year {
			return true
		}
	}
	return false
}

// Selection is the year/champion choice shared across sections. The zero
// value is the empty selection; a champion is only meaningful with a year.
type Selection struct {
	Year     string `json:"year"`
	Champion string `json:"champion,omitempty"`
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return s.Year == "" && s.Champion == ""
}

// HasChampion reports whether a champion is selected.
func (s Selection) HasChampion() bool {
	return s.Champion != ""
}

// ChampionOr returns the selected champion, or fallback when none is set.
func (s Selection) ChampionOr(fallback string) string {
	if s.Champion == "" {
		return fallback
	}
	return s.Champion
}
