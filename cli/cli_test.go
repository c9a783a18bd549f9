package main

import (
	"bytes"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/GTANeijasAcc/GTANBot/moderation"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dashboardURL = "http://dashboard.test"

func jsonResponder(status int, body string) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		resp := httpmock.NewStringResponse(status, body)
		resp.Header.Set("Content-Type", "application/json")
		return resp, nil
	}
}

func newTestCLI(t *testing.T) *cli {
	c := &cli{api: newAPIClient(dashboardURL)}
	httpmock.ActivateNonDefault(c.api.rc.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func run(t *testing.T, c *cli, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(c)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCommandsList(t *testing.T) {
	c := newTestCLI(t)
	httpmock.RegisterResponder("GET", dashboardURL+"/api/commands", jsonResponder(200, `[
		{"name":"ban","description":"Ban a member from the server","usage":"/ban <user> [reason]","category":"Moderation","custom":false},
		{"name":"rules","description":"Server rules","usage":"!rules","category":"Custom","custom":true}
	]`))

	out, err := run(t, c, "commands", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ban")
	assert.Contains(t, out, "rules")

	out, err = run(t, c, "commands", "list", "--custom")
	require.NoError(t, err)
	assert.NotContains(t, out, "ban ")
	assert.Contains(t, out, "rules")
}

func TestCommandsCreate(t *testing.T) {
	c := newTestCLI(t)

	var body string
	httpmock.RegisterResponder("POST", dashboardURL+"/api/commands/create",
		func(req *http.Request) (*http.Response, error) {
			raw, _ := io.ReadAll(req.Body)
			body = string(raw)
			return jsonResponder(200, `{"success":true,"message":"Command created successfully"}`)(req)
		})

	out, err := run(t, c, "commands", "create", "rules", "-d", "Server rules", "-r", "Be nice")
	require.NoError(t, err)
	assert.Contains(t, out, "Command created successfully")
	assert.JSONEq(t, `{"name":"rules","description":"Server rules","usage":"","response":"Be nice"}`, body)
}

func TestCommandsDeleteReportsDashboardError(t *testing.T) {
	c := newTestCLI(t)
	httpmock.RegisterResponder("DELETE", dashboardURL+"/api/commands/ban",
		jsonResponder(400, `{"success":false,"error":"Cannot delete core moderation commands"}`))

	_, err := run(t, c, "commands", "delete", "ban")
	require.Error(t, err)
	assert.Equal(t, "Cannot delete core moderation commands", err.Error())
}

func TestPresence(t *testing.T) {
	c := newTestCLI(t)
	httpmock.RegisterResponder("GET", dashboardURL+"/api/presence", jsonResponder(200,
		`{"gameName":"Grand Theft Auto: Neijas","details":"Singleplayer","stateIndex":1,"states":["Walking","Driving"]}`))
	httpmock.RegisterResponder("POST", dashboardURL+"/api/presence/state",
		jsonResponder(200, `{"success":true,"message":"Presence state updated"}`))

	out, err := run(t, c, "presence", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Playing Grand Theft Auto: Neijas")
	assert.Contains(t, out, "* 1: Driving")
	assert.Contains(t, out, "  0: Walking")

	out, err = run(t, c, "presence", "set", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Presence state updated")

	_, err = run(t, c, "presence", "set", "first")
	assert.Error(t, err)
}

func TestStatus(t *testing.T) {
	c := newTestCLI(t)
	httpmock.RegisterResponder("GET", dashboardURL+"/api/stats", jsonResponder(200,
		`{"username":"GTANBot","status":"online","guilds":2,"ping":42,"commands":9}`))

	out, err := run(t, c, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "GTANBot (online)")
	assert.Contains(t, out, "42ms")
}

func TestDashboardUnreachableStatus(t *testing.T) {
	c := newTestCLI(t)
	httpmock.RegisterResponder("GET", dashboardURL+"/api/stats", httpmock.NewStringResponder(502, "bad gateway"))

	_, err := run(t, c, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestWarningsRequireDatabase(t *testing.T) {
	c := &cli{}
	_, err := run(t, c, "warnings", "list", "--guild", "1", "--user", "2", "--database-url", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database configured")
}

func TestPrintWarnings(t *testing.T) {
	key := moderation.LedgerKey{GuildID: "g", UserID: "u"}

	var out bytes.Buffer
	printWarnings(&out, key, nil)
	assert.Equal(t, "No warnings for u in g.\n", out.String())

	out.Reset()
	printWarnings(&out, key, []moderation.WarningRecord{
		{ID: 1, Reason: "spam", Moderator: "mod", Timestamp: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)},
	})
	assert.Contains(t, out.String(), "1 warning(s) for u in g:")
	assert.Contains(t, out.String(), "#1  2024-05-01 09:00  by mod: spam")
}
