package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dom/league-rest-explorer/internal/dashboard"
	"github.com/dom/league-rest-explorer/internal/domain"
	"github.com/dom/league-rest-explorer/internal/testutil"
	"github.com/dom/league-rest-explorer/internal/websocket"
	gorillaWS "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionResponse struct {
	ID        string           `json:"id"`
	Token     string           `json:"token"`
	Selection domain.Selection `json:"selection"`
	Sections  []viewResponse   `json:"sections"`
}

type viewResponse struct {
	Section     domain.SectionInfo `json:"section"`
	Mode        domain.DataMode    `json:"mode"`
	LastUpdated *time.Time         `json:"lastUpdated"`
	Selection   domain.Selection   `json:"selection"`
	Rows        json.RawMessage    `json:"rows"`
	Count       int                `json:"count"`
	Banner      string             `json:"banner"`
}

// fakeProxy answers every endpoint with one well-formed record, except the
// ones listed in failing.
func fakeProxy(failing ...string) http.HandlerFunc {
	bodies := map[string]string{
		"contests":           `{"data":[{"id":"1","slug":"worlds_2023","name":"Worlds 2023","startDate":"2023-10-10","endDate":"2023-11-19"}]}`,
		"summoners":          `{"data":[{"summonerName":"Faker","firstName":"Sang-hyeok","lastName":"Lee","role":"mid","team":"T1"}]}`,
		"champion-mastery":   `{"data":[{"championId":145,"championName":"Kai'Sa","championLevel":7,"championPoints":1000,"lastPlayTime":1700000000000}]}`,
		"challenger":         `{"data":[{"layer":"gateway","component":"api-gateway","status":"200","durationMs":2}]}`,
		"champion-rotations": `{"data":[{"key":"layout","value":"list","description":"d"}]}`,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		endpoint := r.URL.Query().Get("endpoint")
		for _, f := range failing {
			if f == endpoint {
				http.Error(w, `{"error":"Upstream request failed"}`, http.StatusBadGateway)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(bodies[endpoint]))
	}
}

func newDashboard(t *testing.T, failing ...string) *testutil.DashboardServer {
	t.Helper()
	proxy := testutil.NewUpstream(t, fakeProxy(failing...))
	cdn := testutil.NewUpstream(t, testutil.DataDragonHandler())
	return testutil.NewDashboardServer(t, proxy.URL+"/api", cdn.URL)
}

func createSession(t *testing.T, ds *testutil.DashboardServer) sessionResponse {
	t.Helper()

	resp, err := http.Post(ds.APIURL("/sessions"), "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var s sessionResponse
	testutil.AssertJSONResponse(t, resp, &s)
	return s
}

func do(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()
	resp, err := http.DefaultClient.Do(testutil.CreateAuthenticatedRequest(t, method, url, body, token))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSessionHandler_Create(t *testing.T) {
	ds := newDashboard(t)

	s := createSession(t, ds)

	assert.NotEmpty(t, s.Token)
	assert.Equal(t, domain.Selection{Year: domain.DefaultYear}, s.Selection)
	require.Len(t, s.Sections, 6)
	for i, v := range s.Sections {
		assert.Equal(t, i+1, v.Section.Step)
		assert.Equal(t, domain.ModeDemo, v.Mode)
		assert.Nil(t, v.LastUpdated)
		assert.NotEmpty(t, v.Banner)
	}
	assert.Equal(t, 1, ds.Store.Len())
}

func TestSessionMiddleware(t *testing.T) {
	ds := newDashboard(t)
	s := createSession(t, ds)
	other := createSession(t, ds)

	tests := []struct {
		name           string
		id             string
		token          string
		expectedStatus int
	}{
		{name: "valid token", id: s.ID, token: s.Token, expectedStatus: http.StatusOK},
		{name: "missing token", id: s.ID, token: "", expectedStatus: http.StatusUnauthorized},
		{name: "garbage token", id: s.ID, token: "not-a-jwt", expectedStatus: http.StatusUnauthorized},
		{name: "token for another session", id: s.ID, token: other.Token, expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodGet, ds.APIURL("/sessions/"+tt.id+"/sections"), tt.token, nil)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestSessionHandler_Delete(t *testing.T) {
	ds := newDashboard(t)
	s := createSession(t, ds)
	base := ds.APIURL("/sessions/" + s.ID)

	resp := do(t, http.MethodDelete, base, s.Token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, base+"/sections", s.Token, nil)
	testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Session not found")
}

func TestSectionHandler_FetchAndReset(t *testing.T) {
	ds := newDashboard(t)
	s := createSession(t, ds)
	base := ds.APIURL("/sessions/" + s.ID + "/sections/champions")

	resp := do(t, http.MethodPost, base+"/fetch", s.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var live viewResponse
	testutil.AssertJSONResponse(t, resp, &live)
	assert.Equal(t, domain.ModeLive, live.Mode)
	assert.Empty(t, live.Banner)
	assert.NotNil(t, live.LastUpdated)
	assert.Equal(t, 1, live.Count)

	var players []domain.Player
	require.NoError(t, json.Unmarshal(live.Rows, &players))
	assert.Equal(t, "Sang-hyeok Lee", players[0].Name)

	resp = do(t, http.MethodGet, base, s.Token, nil)
	var stored viewResponse
	testutil.AssertJSONResponse(t, resp, &stored)
	assert.Equal(t, domain.ModeLive, stored.Mode)

	resp = do(t, http.MethodPost, base+"/reset", s.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reset viewResponse
	testutil.AssertJSONResponse(t, resp, &reset)
	assert.Equal(t, domain.ModeDemo, reset.Mode)
	assert.Equal(t, len(dashboard.DemoPlayers(domain.Selection{})), reset.Count)
}

func TestSectionHandler_FetchFailureFallsBack(t *testing.T) {
	ds := newDashboard(t, "contests")
	s := createSession(t, ds)

	resp := do(t, http.MethodPost, ds.APIURL("/sessions/"+s.ID+"/sections/contests/fetch"), s.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var v viewResponse
	testutil.AssertJSONResponse(t, resp, &v)
	assert.Equal(t, domain.ModeDemo, v.Mode)
	assert.Equal(t, "Showing demo data: live data is unavailable.", v.Banner)
	assert.NotNil(t, v.LastUpdated)

	var contests []domain.Tournament
	require.NoError(t, json.Unmarshal(v.Rows, &contests))
	assert.Equal(t, "Worlds Championship 2024", contests[0].Name)
}

func TestSectionHandler_UnknownSection(t *testing.T) {
	ds := newDashboard(t)
	s := createSession(t, ds)

	resp := do(t, http.MethodPost, ds.APIURL("/sessions/"+s.ID+"/sections/matches/fetch"), s.Token, nil)
	testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Unknown section")
}

func TestSectionHandler_Refresh(t *testing.T) {
	ds := newDashboard(t, "challenger")
	s := createSession(t, ds)

	resp := do(t, http.MethodPost, ds.APIURL("/sessions/"+s.ID+"/refresh"), s.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Sections []viewResponse `json:"sections"`
	}
	testutil.AssertJSONResponse(t, resp, &body)
	require.Len(t, body.Sections, 6)

	modes := map[domain.Section]domain.DataMode{}
	for _, v := range body.Sections {
		modes[v.Section.ID] = v.Mode
		assert.NotNil(t, v.LastUpdated)
	}
	assert.Equal(t, domain.ModeLive, modes[domain.SectionContests])
	assert.Equal(t, domain.ModeLive, modes[domain.SectionDataDragon])
	assert.Equal(t, domain.ModeDemo, modes[domain.SectionChallenger])
}

func TestSelectionHandler(t *testing.T) {
	ds := newDashboard(t)
	s := createSession(t, ds)
	url := ds.APIURL("/sessions/" + s.ID + "/selection")

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
		want           domain.Selection
	}{
		{
			name:           "champion canonicalized",
			body:           map[string]string{"champion": "leesin"},
			expectedStatus: http.StatusOK,
			want:           domain.Selection{Year: domain.DefaultYear, Champion: "Lee Sin"},
		},
		{
			name:           "year change keeps champion",
			body:           map[string]string{"year": "2023"},
			expectedStatus: http.StatusOK,
			want:           domain.Selection{Year: "2023", Champion: "Lee Sin"},
		},
		{
			name:           "year outside the list",
			body:           map[string]string{"year": "1999"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "champion outside the list",
			body:           map[string]string{"champion": "Teemo"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPut, url, s.Token, tt.body)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var body struct {
				Selection domain.Selection `json:"selection"`
				Years     []string         `json:"years"`
			}
			testutil.AssertJSONResponse(t, resp, &body)
			assert.Equal(t, tt.want, body.Selection)
			assert.Equal(t, domain.Years, body.Years)
		})
	}

	// The selection flows into the next fetch.
	resp := do(t, http.MethodPost, ds.APIURL("/sessions/"+s.ID+"/sections/data-dragon/fetch"), s.Token, nil)
	var v viewResponse
	testutil.AssertJSONResponse(t, resp, &v)
	assert.Equal(t, "Lee Sin", v.Selection.Champion)
	assert.Contains(t, string(v.Rows), `"LeeSin"`)
}

func TestSelectionHandler_Champions(t *testing.T) {
	ds := newDashboard(t)

	resp, err := http.Get(ds.APIURL("/champions"))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Champions []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			ImageURL string `json:"imageUrl"`
		} `json:"champions"`
		Version string `json:"version"`
	}
	testutil.AssertJSONResponse(t, resp, &body)
	require.Len(t, body.Champions, len(domain.ChampionOptions()))
	assert.Equal(t, "14.1.1", body.Version)
	for _, c := range body.Champions {
		assert.True(t, strings.HasSuffix(c.ImageURL, "/cdn/14.1.1/img/champion/"+c.ID+".png"), c.ImageURL)
	}
}

func TestThemeHandler(t *testing.T) {
	ds := newDashboard(t)

	resp := do(t, http.MethodGet, ds.APIURL("/theme"), "", nil)
	var theme struct {
		Theme string `json:"theme"`
	}
	testutil.AssertJSONResponse(t, resp, &theme)
	assert.Equal(t, "light", theme.Theme)

	resp = do(t, http.MethodPut, ds.APIURL("/theme"), "", map[string]string{"theme": "dark"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, ds.APIURL("/theme"), "", nil)
	testutil.AssertJSONResponse(t, resp, &theme)
	assert.Equal(t, "dark", theme.Theme)

	resp = do(t, http.MethodPut, ds.APIURL("/theme"), "", map[string]string{"theme": "sepia"})
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Theme must be light or dark")
}

func TestWebSocketHandler_RejectsBadTokens(t *testing.T) {
	ds := newDashboard(t)

	tests := []struct {
		name           string
		token          string
		expectedStatus int
	}{
		{name: "missing", token: "", expectedStatus: http.StatusUnauthorized},
		{name: "invalid", token: "nope", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, err := gorillaWS.DefaultDialer.Dial(ds.WebSocketURL(tt.token), nil)
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestWebSocketHandler_SessionStream(t *testing.T) {
	ds := newDashboard(t)
	s := createSession(t, ds)

	ws := testutil.NewWSClient(t, ds.WebSocketURL(s.Token))
	sync := ws.ExpectStateSync(2 * time.Second)
	assert.Equal(t, domain.DefaultYear, sync.Selection.Year)
	assert.Len(t, sync.Sections, 6)

	champion := "kaisa"
	ws.SetSelection(dashboard.SelectionUpdate{Champion: &champion})
	event := ws.ExpectEvent(websocket.MessageTypeSelectionChanged, 2*time.Second)
	require.NotNil(t, event.Selection)
	assert.Equal(t, "Kai'Sa", event.Selection.Champion)
	assert.Equal(t, "Selected Kai'Sa in 2024", event.Announcement)

	// The view reply and the mode event travel separately and may arrive in
	// either order.
	ws.FetchSection("champion-details")
	got := ws.ExpectMessagesOfTypes([]websocket.MessageType{
		websocket.MessageTypeModeChanged,
		websocket.MessageTypeSectionView,
	}, 2*time.Second)

	var mode websocket.EventPayload
	require.NoError(t, json.Unmarshal(got[websocket.MessageTypeModeChanged].Payload, &mode))
	assert.Equal(t, domain.SectionChampionDetails, mode.Section)
	assert.Equal(t, domain.ModeLive, mode.Mode)
	assert.Equal(t, "Champion Details now showing live data", mode.Announcement)

	var view testutil.SectionView
	require.NoError(t, json.Unmarshal(got[websocket.MessageTypeSectionView].Payload, &view))
	assert.Equal(t, domain.ModeLive, view.Mode)
	assert.Equal(t, "Kai'Sa", view.Selection.Champion)

	ws.ResetSection("champion-details")
	reset := ws.ExpectSectionView(2 * time.Second)
	assert.Equal(t, domain.ModeDemo, reset.Mode)

	ws.FetchSection("matches")
	ws.ExpectErrorWithCode("UNKNOWN_SECTION", 2*time.Second)
}

func TestWebSocketHandler_ClosedWithSession(t *testing.T) {
	ds := newDashboard(t)
	s := createSession(t, ds)

	ws := testutil.NewWSClient(t, ds.WebSocketURL(s.Token))
	ws.ExpectStateSync(2 * time.Second)

	resp := do(t, http.MethodDelete, ds.APIURL("/sessions/"+s.ID), s.Token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	ws.ExpectClosed(2 * time.Second)
}
