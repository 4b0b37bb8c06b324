package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dom/league-rest-explorer/internal/domain"
)

const highlightCount = 3

// BuildUIConfig turns a free champion rotation into rendering directives the
// dashboard applies without knowing the rotation's shape in advance.
func BuildUIConfig(rotations []domain.RotationRecord) []domain.ConfigRecord {
	var free []string
	newPlayers := 0
	for _, r := range rotations {
		if r.NewPlayersOnly {
			newPlayers++
			continue
		}
		name := r.ChampionName
		if name == "" {
			name = fmt.Sprintf("#%d", r.ChampionID)
		}
		free = append(free, name)
	}

	layout := "list"
	columns := 1
	if len(free) > 6 {
		layout = "grid"
		columns = min(len(free)/4+1, 5)
	}

	return []domain.ConfigRecord{
		{Key: "layout", Value: layout, Description: "Render free champions as a card grid or a list"},
		{Key: "columns", Value: strconv.Itoa(columns), Description: "Cards per row"},
		{Key: "highlight", Value: strings.Join(free[:min(highlightCount, len(free))], ", "), Description: "Champions to badge as free this week"},
		{Key: "badge", Value: "Free this week", Description: "Badge text shown on highlighted cards"},
		{Key: "freeCount", Value: strconv.Itoa(len(free)), Description: "Champions free for every player"},
		{Key: "newPlayerCount", Value: strconv.Itoa(newPlayers), Description: "Champions free for new players only"},
	}
}
