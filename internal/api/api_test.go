package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hvzgame/hvz-server/internal/api"
	"github.com/hvzgame/hvz-server/internal/api/middleware"
	"github.com/hvzgame/hvz-server/internal/api/response"
	"github.com/hvzgame/hvz-server/internal/factory"
)

var testSecret = []byte("api-test-secret")

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		JWTSecret:      testSecret,
		GameService:    app.GameService,
		PlayerService:  app.PlayerService,
		KillService:    app.KillService,
		SquadService:   app.SquadService,
		ChannelService: app.ChannelService,
		MissionService: app.MissionService,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

// token mints a signed bearer token for the given subject
func token(t *testing.T, subject string, roles ...string) string {
	t.Helper()

	claims := middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: roles,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// createGame creates a game through the API as an admin
func (ts *testServer) createGame(t *testing.T) response.Game {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/games",
		map[string]string{"name": "Test Game"}, token(t, "auth0|admin", "admin"))
	require.Equal(t, http.StatusCreated, rr.Code)

	var g response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &g))
	return g
}

// registerPlayer registers the subject in the game, returning the player with bite code
func (ts *testServer) registerPlayer(t *testing.T, gameID, subject string) response.Player {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/players", nil, token(t, subject))
	require.Equal(t, http.StatusCreated, rr.Code)

	var p response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	return p
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestGamesRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/games", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGamesRejectBadToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/games", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateGameRequiresAdmin(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/games",
		map[string]string{"name": "Test Game"}, token(t, "auth0|alice"))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCreateAndGetGame(t *testing.T) {
	ts := newTestServer(t)

	g := ts.createGame(t)
	assert.Equal(t, "registration", g.State)

	rr := ts.request(http.MethodGet, "/api/v1/games/"+g.ID, nil, token(t, "auth0|alice"))
	assert.Equal(t, http.StatusOK, rr.Code)

	var got response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, g.ID, got.ID)
}

func TestGetGameNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/g_missing", nil, token(t, "auth0|alice"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "GAME_NOT_FOUND")
}

func TestRegisterPlayer(t *testing.T) {
	ts := newTestServer(t)
	g := ts.createGame(t)

	p := ts.registerPlayer(t, g.ID, "auth0|alice")
	assert.True(t, p.IsHuman)
	assert.NotEmpty(t, p.BiteCode)

	// Registering twice conflicts
	rr := ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/players", nil, token(t, "auth0|alice"))
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "ALREADY_REGISTERED")
}

func TestListPlayersWithholdsBiteCodes(t *testing.T) {
	ts := newTestServer(t)
	g := ts.createGame(t)
	ts.registerPlayer(t, g.ID, "auth0|alice")

	rr := ts.request(http.MethodGet, "/api/v1/games/"+g.ID+"/players", nil, token(t, "auth0|bob"))
	require.Equal(t, http.StatusOK, rr.Code)

	var players []response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	require.Len(t, players, 1)
	assert.Empty(t, players[0].BiteCode)
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)
	g := ts.createGame(t)
	p := ts.registerPlayer(t, g.ID, "auth0|alice")

	rr := ts.request(http.MethodGet, "/api/v1/games/"+g.ID+"/players/me", nil, token(t, "auth0|alice"))
	require.Equal(t, http.StatusOK, rr.Code)

	var me response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	assert.Equal(t, p.ID, me.ID)
	assert.Equal(t, p.BiteCode, me.BiteCode)

	// Unregistered identity gets 403
	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID+"/players/me", nil, token(t, "auth0|stranger"))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "IDENTITY_NOT_BOUND")
}

func TestKillFlow(t *testing.T) {
	ts := newTestServer(t)
	g := ts.createGame(t)
	zombie := ts.registerPlayer(t, g.ID, "auth0|zed")
	victim := ts.registerPlayer(t, g.ID, "auth0|hank")

	// Seed the zombie via the admin route
	rr := ts.request(http.MethodPatch, "/api/v1/games/"+g.ID+"/players/"+zombie.ID,
		map[string]bool{"is_human": false, "is_patient_zero": true}, token(t, "auth0|admin", "admin"))
	require.Equal(t, http.StatusOK, rr.Code)

	// A payload id belonging to someone else is rejected
	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/kills",
		map[string]string{"killer_id": zombie.ID, "bite_code": victim.BiteCode}, token(t, "auth0|hank"))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "SUBJECT_MISMATCH")

	// The zombie reports the kill
	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/kills",
		map[string]string{"killer_id": zombie.ID, "bite_code": victim.BiteCode}, token(t, "auth0|zed"))
	require.Equal(t, http.StatusCreated, rr.Code)

	var k response.Kill
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &k))
	assert.Equal(t, victim.ID, k.VictimID)

	// The victim is now a zombie
	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID+"/players/me", nil, token(t, "auth0|hank"))
	require.Equal(t, http.StatusOK, rr.Code)
	var hank response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &hank))
	assert.False(t, hank.IsHuman)

	// Reusing the stale bite code conflicts
	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/kills",
		map[string]string{"killer_id": zombie.ID, "bite_code": victim.BiteCode}, token(t, "auth0|zed"))
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_KILL")

	// Admin retracts the kill, reviving the victim
	rr = ts.request(http.MethodDelete, "/api/v1/games/"+g.ID+"/kills/"+k.ID, nil, token(t, "auth0|admin", "admin"))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestSquadFlow(t *testing.T) {
	ts := newTestServer(t)
	g := ts.createGame(t)
	alice := ts.registerPlayer(t, g.ID, "auth0|alice")
	bob := ts.registerPlayer(t, g.ID, "auth0|bob")

	// Alice founds a squad
	rr := ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/squads",
		map[string]string{"name": "Night Watch", "player_id": alice.ID}, token(t, "auth0|alice"))
	require.Equal(t, http.StatusCreated, rr.Code)

	var sq response.Squad
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sq))
	assert.NotEmpty(t, sq.ChannelID)
	assert.Equal(t, []string{alice.ID}, sq.Members)

	// Bob cannot view the roster before joining
	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID+"/squads/"+sq.ID, nil, token(t, "auth0|bob"))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Bob joins, then can view it
	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/squads/"+sq.ID+"/join",
		map[string]string{"player_id": bob.ID}, token(t, "auth0|bob"))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID+"/squads/"+sq.ID, nil, token(t, "auth0|bob"))
	assert.Equal(t, http.StatusOK, rr.Code)

	// Founding a second squad while in one conflicts
	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/squads",
		map[string]string{"name": "Night Watch", "player_id": bob.ID}, token(t, "auth0|bob"))
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "ALREADY_IN_SQUAD")
}

func TestChannelAdminGating(t *testing.T) {
	ts := newTestServer(t)
	g := ts.createGame(t)
	ts.registerPlayer(t, g.ID, "auth0|alice")

	// Players cannot create channels
	rr := ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/channels",
		map[string]string{"name": "announcements"}, token(t, "auth0|alice"))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Admin can
	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/channels",
		map[string]string{"name": "announcements"}, token(t, "auth0|admin", "admin"))
	require.Equal(t, http.StatusCreated, rr.Code)

	// Players can list
	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID+"/channels", nil, token(t, "auth0|alice"))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMissionVisibilityThroughAPI(t *testing.T) {
	ts := newTestServer(t)
	g := ts.createGame(t)
	ts.registerPlayer(t, g.ID, "auth0|alice")

	rr := ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/missions",
		map[string]any{"name": "Horde Gathering", "visible_to_zombies": true}, token(t, "auth0|admin", "admin"))
	require.Equal(t, http.StatusCreated, rr.Code)

	var m response.Mission
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))

	// Alice is human: the zombies-only mission is hidden
	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID+"/missions", nil, token(t, "auth0|alice"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String())

	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID+"/missions/"+m.ID, nil, token(t, "auth0|alice"))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// The admin sees it
	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID+"/missions/"+m.ID, nil, token(t, "auth0|admin", "admin"))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestInvalidRequestBody(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/games",
		map[string]string{}, token(t, "auth0|admin", "admin"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_REQUEST")
}
