package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestPUUID is the account the fake Riot upstream knows masteries for.
const TestPUUID = "test-puuid"

var riotFixtures = map[string]string{
	"/gw/getTournamentsForLeague": `{"data":{"leagues":[{"tournaments":[
		{"id":"110","slug":"worlds_2024","startDate":"2024-09-25","endDate":"2024-11-02"},
		{"id":"111","slug":"msi_2024","startDate":"2024-05-01","endDate":"2024-05-19"},
		{"id":"100","slug":"worlds_2023","startDate":"2023-10-10","endDate":"2023-11-19"}
	]}]}}`,
	"/lol/champion-mastery/v4/champion-masteries/by-puuid/" + TestPUUID + "/top": `[
		{"championId":145,"championLevel":7,"championPoints":250000,"lastPlayTime":1700000000000},
		{"championId":103,"championLevel":6,"championPoints":90000,"lastPlayTime":1690000000000}
	]`,
	"/lol/champion-mastery/v4/champion-masteries/by-puuid/" + TestPUUID + "/by-champion/145": `{"championId":145,"championLevel":7,"championPoints":250000,"lastPlayTime":1700000000000}`,
	"/lol/league/v4/challengerleagues/by-queue/RANKED_SOLO_5x5": `{"tier":"CHALLENGER","queue":"RANKED_SOLO_5x5","entries":[
		{"puuid":"p1","leaguePoints":1200,"wins":300,"losses":250,"rank":"I"},
		{"puuid":"p2","leaguePoints":1800,"wins":400,"losses":300,"rank":"I"}
	]}`,
	"/lol/platform/v3/champion-rotations": `{"freeChampionIds":[145,103,64],"freeChampionIdsForNewPlayers":[222],"maxNewPlayerLevel":10}`,
}

var teamFixtures = map[string]string{
	"t1":    `{"data":{"teams":[{"id":"1","slug":"t1","name":"T1","code":"T1","players":[{"summonerName":"Faker","firstName":"Sang-hyeok","lastName":"Lee","role":"mid"}]}]}}`,
	"gen-g": `{"data":{"teams":[{"id":"2","slug":"gen-g","name":"Gen.G","code":"GEN","players":[{"summonerName":"Chovy","firstName":"Ji-hoon","lastName":"Jeong","role":"mid"}]}]}}`,
}

// RiotHandler serves canned Riot platform and esports responses. Requests
// without a key are rejected like the real upstream does.
func RiotHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Riot-Token") == "" && r.Header.Get("x-api-key") == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/gw/getTeams" {
			if body, ok := teamFixtures[r.URL.Query().Get("id")]; ok {
				w.Write([]byte(body))
				return
			}
			w.Write([]byte(`{"data":{"teams":[]}}`))
			return
		}

		body, ok := riotFixtures[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}
}

// DataDragonHandler serves a two-champion Data Dragon CDN.
func DataDragonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/versions.json":
			w.Write([]byte(`["14.2.1","14.1.1"]`))
		case strings.HasSuffix(r.URL.Path, "/data/en_US/champion.json"):
			w.Write([]byte(`{"type":"champion","version":"14.2.1","data":{
				"Kaisa":{"id":"Kaisa","key":"145","name":"Kai'Sa","title":"Daughter of the Void","tags":["Marksman"],"image":{"full":"Kaisa.png"}},
				"Ahri":{"id":"Ahri","key":"103","name":"Ahri","title":"the Nine-Tailed Fox","tags":["Mage","Assassin"],"image":{"full":"Ahri.png"}}
			}}`))
		case strings.Contains(r.URL.Path, "/data/en_US/champion/"):
			w.Header().Set("ETag", `"v1"`)
			w.Header().Set("Cache-Control", "max-age=300")
			w.Write([]byte(`{}`))
		default:
			http.NotFound(w, r)
		}
	}
}

// NewUpstream starts an httptest server for h that is closed with the test.
func NewUpstream(t *testing.T, h http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}
