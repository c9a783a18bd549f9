package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"emperror.dev/errors"
	"github.com/GTANeijasAcc/GTANBot/bot"
	"github.com/GTANeijasAcc/GTANBot/commands"
	"github.com/GTANeijasAcc/GTANBot/commands/custom"
	"github.com/GTANeijasAcc/GTANBot/presence"
	"github.com/GTANeijasAcc/GTANBot/utils"
	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct{}

func (fakeBot) Stats() bot.Stats {
	return bot.Stats{
		Username:       "GTANBot",
		Guilds:         2,
		Users:          150,
		Channels:       12,
		Uptime:         "1h0m0s",
		UptimeSeconds:  3600,
		Ping:           42,
		PendingUnmutes: 1,
		Status:         "online",
	}
}

func (fakeBot) Guilds() []bot.GuildInfo {
	return []bot.GuildInfo{
		{ID: "1", Name: "Alpha", MemberCount: 100, CreatedAt: time.Unix(0, 0)},
		{ID: "2", Name: "Beta", MemberCount: 50, CreatedAt: time.Unix(0, 0)},
	}
}

type fakePresence struct {
	index int
}

func (p *fakePresence) Info() presence.Info {
	states := []string{"Walking", "Driving", "Studying"}
	return presence.Info{
		GameName:     "Grand Theft Auto: Neijas",
		States:       states,
		StateIndex:   p.index,
		TotalStates:  len(states),
		CurrentState: states[p.index],
	}
}

func (p *fakePresence) SetState(index int) error {
	if index < 0 || index > 2 {
		return errors.WithDetails(presence.ErrInvalidState, "index", index)
	}
	p.index = index
	return nil
}

type fakeCommands struct {
	created []custom.Command
	err     error
}

func (f *fakeCommands) Create(cmd custom.Command) (custom.Command, error) {
	if f.err != nil {
		return cmd, f.err
	}
	cmd.Usage = "!" + cmd.Name
	f.created = append(f.created, cmd)
	return cmd, nil
}

func (f *fakeCommands) Delete(name string) error {
	switch name {
	case "ban":
		return custom.ErrProtected
	case "missing":
		return custom.ErrNotFound
	case "broken":
		return errors.New("disk on fire")
	}
	return nil
}

type fakeLogs struct{}

func (fakeLogs) Entries() []utils.LogEntry {
	return []utils.LogEntry{{Level: "info", Message: "Bot started successfully", Package: "bot"}}
}

type testEnv struct {
	server   *Server
	presence *fakePresence
	commands *fakeCommands
}

func newTestEnv() *testEnv {
	env := &testEnv{presence: &fakePresence{}, commands: &fakeCommands{}}
	env.server = NewServer(Deps{
		Bot:      fakeBot{},
		Presence: env.presence,
		Commands: env.commands,
		Logs:     fakeLogs{},
	})
	return env
}

func (env *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestStats(t *testing.T) {
	rec := newTestEnv().do("GET", "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "GTANBot", body["username"])
	assert.EqualValues(t, 2, body["guilds"])
	assert.EqualValues(t, 42, body["ping"])
	assert.Contains(t, body, "commands")
}

func TestGuildsAndLogs(t *testing.T) {
	env := newTestEnv()

	rec := env.do("GET", "/api/guilds", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var guilds []bot.GuildInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &guilds))
	require.Len(t, guilds, 2)
	assert.Equal(t, "Alpha", guilds[0].Name)

	rec = env.do("GET", "/api/logs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bot started successfully")
}

func TestCommandCategories(t *testing.T) {
	commands.RegisterModule(&commands.ModuleInfo{
		Name:     "dashboard-test",
		Category: "DashboardTesting",
		Commands: []commands.CommandInfo{
			{Name: "dbtping", Description: "Ping", Usage: "!dbtping", Category: "DashboardTesting"},
		},
	})

	env := newTestEnv()

	rec := env.do("GET", "/api/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var categories []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	assert.Contains(t, categories, "DashboardTesting")

	rec = env.do("GET", "/api/commands?category=DashboardTesting", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []commands.CommandInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "dbtping", list[0].Name)

	rec = env.do("GET", "/api/commands?category=Nothing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestSetPresenceState(t *testing.T) {
	env := newTestEnv()

	rec := env.do("POST", "/api/presence/state", `{"stateIndex": 2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Presence state updated", body["message"])
	assert.Equal(t, 2, env.presence.index)

	rec = env.do("POST", "/api/presence/state", `{"stateIndex": 0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, env.presence.index)

	rec = env.do("POST", "/api/presence/state", `{"stateIndex": 7}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])

	rec = env.do("POST", "/api/presence/state", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do("GET", "/api/presence", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode(t, rec)["stateIndex"])
}

func TestCreateCommand(t *testing.T) {
	env := newTestEnv()

	rec := env.do("POST", "/api/commands/create", `{"name":"rules","description":"Server rules","response":"Be nice"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Command created successfully", body["message"])
	require.Len(t, env.commands.created, 1)
	assert.Equal(t, "Be nice", env.commands.created[0].Response)

	env.commands.err = custom.ErrExists
	rec = env.do("POST", "/api/commands/create", `{"name":"rules","description":"x","response":"y"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Command already exists", decode(t, rec)["error"])

	env.commands.err = errors.New("disk full")
	rec = env.do("POST", "/api/commands/create", `{"name":"other","description":"x","response":"y"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to create command", decode(t, rec)["error"])

	rec = env.do("POST", "/api/commands/create", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteCommand(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		name   string
		status int
		msg    string
	}{
		{"rules", http.StatusOK, ""},
		{"ban", http.StatusBadRequest, "Cannot delete core moderation commands"},
		{"missing", http.StatusNotFound, "Command not found"},
		{"broken", http.StatusInternalServerError, "Failed to delete command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do("DELETE", "/api/commands/"+tt.name, "")
			assert.Equal(t, tt.status, rec.Code)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, decode(t, rec)["error"])
			}
		})
	}
}

func TestPage(t *testing.T) {
	env := newTestEnv()
	env.presence.index = 1

	rec := env.do("GET", "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)

	values := doc.Find(".stat-item .stat-value")
	require.Equal(t, 7, values.Length())
	assert.Equal(t, "2", values.Eq(0).Text())
	assert.Equal(t, "150", values.Eq(1).Text())
	assert.Equal(t, "42ms", values.Eq(4).Text())

	assert.True(t, doc.Find(".status-indicator").HasClass("online"))

	buttons := doc.Find(".state-btn")
	require.Equal(t, 3, buttons.Length())
	assert.True(t, buttons.Eq(1).HasClass("active"))
	assert.False(t, buttons.Eq(0).HasClass("active"))
	assert.Equal(t, "Driving", buttons.Eq(1).Text())

	assert.Equal(t, 2, doc.Find(".guild").Length())
}

func TestMetricsEndpoint(t *testing.T) {
	rec := newTestEnv().do("GET", "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
