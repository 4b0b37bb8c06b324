package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dom/league-rest-explorer/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var championSeq atomic.Int64

// ChampionBuilder creates test champions
type ChampionBuilder struct {
	id       string
	key      string
	name     string
	title    string
	imageURL string
	tags     []string
	version  string
}

// NewChampionBuilder creates a new ChampionBuilder with default values
func NewChampionBuilder() *ChampionBuilder {
	n := championSeq.Add(1)
	id := fmt.Sprintf("Champion%d", n)
	return &ChampionBuilder{
		id:       id,
		key:      strconv.FormatInt(9000+n, 10),
		name:     id,
		title:    "The Test Champion",
		imageURL: championImageURL(id),
		tags:     []string{"Fighter"},
		version:  "14.1.1",
	}
}

func championImageURL(id string) string {
	return fmt.Sprintf("https://ddragon.leagueoflegends.com/cdn/14.1.1/img/champion/%s.png", id)
}

// WithID sets the champion ID, name and image
func (b *ChampionBuilder) WithID(id string) *ChampionBuilder {
	b.id = id
	b.name = id
	b.imageURL = championImageURL(id)
	return b
}

// WithKey sets the numeric champion key
func (b *ChampionBuilder) WithKey(key string) *ChampionBuilder {
	b.key = key
	return b
}

// WithName sets the champion name
func (b *ChampionBuilder) WithName(name string) *ChampionBuilder {
	b.name = name
	return b
}

// WithTitle sets the champion title
func (b *ChampionBuilder) WithTitle(title string) *ChampionBuilder {
	b.title = title
	return b
}

// WithTags sets the champion tags
func (b *ChampionBuilder) WithTags(tags []string) *ChampionBuilder {
	b.tags = tags
	return b
}

// WithVersion sets the Data Dragon version the champion was synced from
func (b *ChampionBuilder) WithVersion(version string) *ChampionBuilder {
	b.version = version
	return b
}

// Build creates the champion in the database
func (b *ChampionBuilder) Build(t *testing.T, db *gorm.DB) *domain.Champion {
	t.Helper()

	tagsJSON, _ := json.Marshal(b.tags)
	champion := &domain.Champion{
		ID:           b.id,
		Key:          b.key,
		Name:         b.name,
		Title:        b.title,
		ImageURL:     b.imageURL,
		Tags:         datatypes.JSON(tagsJSON),
		Version:      b.version,
		LastSyncedAt: time.Now(),
	}

	if err := db.Create(champion).Error; err != nil {
		t.Fatalf("failed to create champion: %v", err)
	}

	return champion
}

// SeedChampions creates N test champions in the database
func SeedChampions(t *testing.T, db *gorm.DB, count int) []*domain.Champion {
	t.Helper()

	champions := make([]*domain.Champion, count)
	for i := 0; i < count; i++ {
		champions[i] = NewChampionBuilder().
			WithID(fmt.Sprintf("TestChampion%d", i)).
			WithName(fmt.Sprintf("Test Champion %d", i)).
			Build(t, db)
	}
	return champions
}

// SeedRealChampions creates the champions of the selector with their real keys
func SeedRealChampions(t *testing.T, db *gorm.DB) []*domain.Champion {
	t.Helper()

	keys := map[string]string{
		"Ahri": "103", "Azir": "268", "Ezreal": "81", "Jinx": "222", "Kaisa": "145",
		"LeeSin": "64", "Lux": "99", "Orianna": "61", "Thresh": "412", "Yasuo": "157",
	}

	options := domain.ChampionOptions()
	champions := make([]*domain.Champion, len(options))
	for i, opt := range options {
		champions[i] = NewChampionBuilder().
			WithID(opt.ID).
			WithKey(keys[opt.ID]).
			WithName(opt.Name).
			Build(t, db)
	}
	return champions
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
