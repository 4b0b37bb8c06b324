package service_test

import (
	"fmt"
	"testing"

	"github.com/dom/league-rest-explorer/internal/domain"
	"github.com/dom/league-rest-explorer/internal/service"
	"github.com/stretchr/testify/assert"
)

func configValue(rows []domain.ConfigRecord, key string) string {
	for _, r := range rows {
		if r.Key == key {
			return r.Value
		}
	}
	return ""
}

func TestBuildUIConfig(t *testing.T) {
	var big []domain.RotationRecord
	for i := 0; i < 20; i++ {
		big = append(big, domain.RotationRecord{ChampionID: i, ChampionName: fmt.Sprintf("Champ%d", i)})
	}

	tests := []struct {
		name      string
		rotations []domain.RotationRecord
		layout    string
		columns   string
		highlight string
		newCount  string
	}{
		{
			name:      "empty rotation",
			layout:    "list",
			columns:   "1",
			highlight: "",
			newCount:  "0",
		},
		{
			name: "small rotation with unnamed champion",
			rotations: []domain.RotationRecord{
				{ChampionID: 1, ChampionName: "Annie"},
				{ChampionID: 2},
				{ChampionID: 3, ChampionName: "Olaf", NewPlayersOnly: true},
			},
			layout:    "list",
			columns:   "1",
			highlight: "Annie, #2",
			newCount:  "1",
		},
		{
			name:      "large rotation",
			rotations: big,
			layout:    "grid",
			columns:   "5",
			highlight: "Champ0, Champ1, Champ2",
			newCount:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := service.BuildUIConfig(tt.rotations)
			assert.Equal(t, tt.layout, configValue(rows, "layout"))
			assert.Equal(t, tt.columns, configValue(rows, "columns"))
			assert.Equal(t, tt.highlight, configValue(rows, "highlight"))
			assert.Equal(t, tt.newCount, configValue(rows, "newPlayerCount"))
		})
	}
}
