package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/party-bet-platform/internal/betting"
	"github.com/radieske/party-bet-platform/pkg/contracts/events"
)

type testAPI struct {
	srv *httptest.Server
	dir *betting.MemDirectory
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := betting.NewMemStore()
	dir := betting.NewMemDirectory()
	engine := betting.NewEngine(zap.NewNop(), store, dir, betting.NewRecorderBroadcaster())

	api := NewServer(zap.NewNop(), engine, dir)
	srv := httptest.NewServer(api.Router())
	t.Cleanup(srv.Close)
	return &testAPI{srv: srv, dir: dir}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (a *testAPI) register(t *testing.T, name, phone string) map[string]any {
	t.Helper()
	var user map[string]any
	resp := a.do(t, http.MethodPost, "/api/users", map[string]string{"name": name, "phone": phone}, &user)
	require.Contains(t, []int{http.StatusOK, http.StatusCreated}, resp.StatusCode)
	return user
}

func TestRegisterAndRestore(t *testing.T) {
	api := newTestAPI(t)

	var created map[string]any
	resp := api.do(t, http.MethodPost, "/api/users", map[string]string{"name": "Alice", "phone": "(555) 000-0001"}, &created)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Alice", created["name"])
	assert.Equal(t, "5550000001", created["phone"])

	// mesmo telefone: restore com rename no lugar, id preservado
	var restored map[string]any
	resp = api.do(t, http.MethodPost, "/api/users", map[string]string{"name": "Alicia", "phone": "555-000-0001"}, &restored)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created["id"], restored["id"])
	assert.Equal(t, "Alicia", restored["name"])
}

func TestRegisterValidation(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodPost, "/api/users", map[string]string{"name": "", "phone": "5550000001"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/users", map[string]string{"name": "Al", "phone": "123"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBetLifecycleOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register(t, "Alice", "5550000001")
	bob := api.register(t, "Bob", "5550000002")
	aliceID := alice["id"].(string)
	bobID := bob["id"].(string)

	var bet events.BetSnapshot
	resp := api.do(t, http.MethodPost, "/api/bets", map[string]string{
		"proposition": "Team A wins",
		"stake":       "$5",
		"creatorSide": "YES",
		"userId":      aliceID,
	}, &bet)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "OPEN", bet.Status)
	assert.Equal(t, "Alice", bet.CreatorName)

	resp = api.do(t, http.MethodPost, "/api/bets/"+bet.ID+"/accept", map[string]string{"userId": bobID}, &bet)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ACCEPTED", bet.Status)
	assert.Equal(t, "Bob", bet.AcceptorName)

	resp = api.do(t, http.MethodPost, "/api/bets/"+bet.ID+"/resolve", map[string]string{"userId": aliceID, "outcome": "NO"}, &bet)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "RESOLVED", bet.Status)
	assert.Equal(t, bobID, bet.WinnerID)
	assert.Equal(t, aliceID, bet.LoserID)

	resp = api.do(t, http.MethodPost, "/api/bets/"+bet.ID+"/complete", map[string]string{"userId": bobID}, &bet)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "COMPLETED", bet.Status)

	// perfil com contadores individuais
	var profile struct {
		User  map[string]any    `json:"user"`
		Stats betting.UserStats `json:"stats"`
	}
	resp = api.do(t, http.MethodGet, "/api/users/"+aliceID, nil, &profile)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, profile.Stats.Losses)
	assert.Equal(t, 0, profile.Stats.Outstanding)

	// leaderboard
	var lb struct {
		Leaderboard []events.LeaderboardEntry `json:"leaderboard"`
	}
	resp = api.do(t, http.MethodGet, "/api/leaderboard", nil, &lb)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, lb.Leaderboard, 2)
	assert.Equal(t, bobID, lb.Leaderboard[0].UserID) // 1 vitória vem primeiro
	assert.Equal(t, 1, lb.Leaderboard[0].Wins)

	// stats globais
	var st events.Stats
	resp = api.do(t, http.MethodGet, "/api/stats", nil, &st)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, events.Stats{ResolvedBets: 1, TotalUsers: 2}, st)
}

func TestErrorStatusMapping(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register(t, "Alice", "5550000001")
	bob := api.register(t, "Bob", "5550000002")
	aliceID := alice["id"].(string)
	bobID := bob["id"].(string)

	var bet events.BetSnapshot
	api.do(t, http.MethodPost, "/api/bets", map[string]string{
		"proposition": "prop", "stake": "stake", "creatorSide": "YES", "userId": aliceID,
	}, &bet)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"validation -> 400", http.MethodPost, "/api/bets", map[string]string{
			"proposition": "p", "stake": "s", "creatorSide": "MAYBE", "userId": aliceID}, http.StatusBadRequest},
		{"not found -> 404", http.MethodPost, "/api/bets/missing/accept", map[string]string{"userId": bobID}, http.StatusNotFound},
		{"forbidden -> 403", http.MethodPost, "/api/bets/" + bet.ID + "/accept", map[string]string{"userId": aliceID}, http.StatusForbidden},
		{"invalid state -> 400", http.MethodPost, "/api/bets/" + bet.ID + "/resolve", map[string]string{"userId": aliceID, "outcome": "YES"}, http.StatusBadRequest},
		{"unknown user -> 404", http.MethodGet, "/api/users/missing", nil, http.StatusNotFound},
		{"unknown bet -> 404", http.MethodGet, "/api/bets/missing", nil, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var msg struct {
				Message string `json:"message"`
			}
			resp := api.do(t, tc.method, tc.path, tc.body, &msg)
			assert.Equal(t, tc.want, resp.StatusCode)
			assert.NotEmpty(t, msg.Message)
		})
	}
}

func TestAdminEndpoints(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register(t, "Alice", "5550000001")
	bob := api.register(t, "Bob", "5550000002")
	aliceID := alice["id"].(string)
	bobID := bob["id"].(string)

	var bet events.BetSnapshot
	api.do(t, http.MethodPost, "/api/bets", map[string]string{
		"proposition": "prop", "stake": "stake", "creatorSide": "YES", "userId": aliceID,
	}, &bet)
	api.do(t, http.MethodPost, "/api/bets/"+bet.ID+"/accept", map[string]string{"userId": bobID}, &bet)

	// undo-accept reabre a aposta sem sobras do aceitante
	var reopened events.BetSnapshot
	resp := api.do(t, http.MethodPost, "/api/bets/"+bet.ID+"/admin-undo-accept", nil, &reopened)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OPEN", reopened.Status)
	assert.Empty(t, reopened.AcceptorID)
	assert.Empty(t, reopened.AcceptedAt)

	// delete responde confirmação e a aposta some
	var del struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	resp = api.do(t, http.MethodDelete, "/api/bets/"+bet.ID+"/admin-delete", nil, &del)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, bet.ID, del.ID)

	resp = api.do(t, http.MethodGet, "/api/bets/"+bet.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = api.do(t, http.MethodDelete, "/api/bets/"+bet.ID+"/admin-delete", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListBetsFilters(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register(t, "Alice", "5550000001")
	bob := api.register(t, "Bob", "5550000002")
	aliceID := alice["id"].(string)
	bobID := bob["id"].(string)

	var b1, b2 events.BetSnapshot
	api.do(t, http.MethodPost, "/api/bets", map[string]string{
		"proposition": "first", "stake": "s", "creatorSide": "YES", "userId": aliceID}, &b1)
	api.do(t, http.MethodPost, "/api/bets", map[string]string{
		"proposition": "second", "stake": "s", "creatorSide": "NO", "userId": bobID}, &b2)
	api.do(t, http.MethodPost, "/api/bets/"+b1.ID+"/accept", map[string]string{"userId": bobID}, nil)

	var list struct {
		Bets []events.BetSnapshot `json:"bets"`
	}
	resp := api.do(t, http.MethodGet, "/api/bets?status=OPEN", nil, &list)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list.Bets, 1)
	assert.Equal(t, b2.ID, list.Bets[0].ID)

	resp = api.do(t, http.MethodGet, fmt.Sprintf("/api/bets?userId=%s", bobID), nil, &list)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, list.Bets, 2)
}
