package main

import (
	"time"

	"emperror.dev/errors"
	"github.com/GTANeijasAcc/GTANBot/commands"
	"github.com/GTANeijasAcc/GTANBot/commands/custom"
	"github.com/GTANeijasAcc/GTANBot/presence"
	"github.com/go-resty/resty/v2"
)

// apiClient talks to the dashboard of a running bot
type apiClient struct {
	rc *resty.Client
}

func newAPIClient(baseURL string) *apiClient {
	rc := resty.New()
	rc.SetBaseURL(baseURL)
	rc.SetTimeout(10 * time.Second)
	rc.SetHeader("Accept", "application/json")

	return &apiClient{rc: rc}
}

type apiError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type apiMessage struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type botStats struct {
	Username       string `json:"username"`
	Status         string `json:"status"`
	Guilds         int    `json:"guilds"`
	Users          int    `json:"users"`
	Channels       int    `json:"channels"`
	Commands       int    `json:"commands"`
	Ping           int64  `json:"ping"`
	Uptime         string `json:"uptime"`
	PendingUnmutes int    `json:"pendingUnmutes"`
}

func check(resp *resty.Response, err error, apiErr *apiError) error {
	if err != nil {
		return errors.WithMessage(err, "dashboard request")
	}
	if resp.IsError() {
		if apiErr.Error != "" {
			return errors.New(apiErr.Error)
		}
		return errors.Errorf("dashboard returned %s", resp.Status())
	}
	return nil
}

func (c *apiClient) Stats() (botStats, error) {
	var out botStats
	var apiErr apiError
	resp, err := c.rc.R().SetResult(&out).SetError(&apiErr).Get("/api/stats")
	return out, check(resp, err, &apiErr)
}

func (c *apiClient) ListCommands() ([]commands.CommandInfo, error) {
	var out []commands.CommandInfo
	var apiErr apiError
	resp, err := c.rc.R().SetResult(&out).SetError(&apiErr).Get("/api/commands")
	return out, check(resp, err, &apiErr)
}

func (c *apiClient) CreateCommand(cmd custom.Command) (string, error) {
	var out apiMessage
	var apiErr apiError
	resp, err := c.rc.R().
		SetBody(map[string]string{
			"name":        cmd.Name,
			"description": cmd.Description,
			"usage":       cmd.Usage,
			"response":    cmd.Response,
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/commands/create")
	return out.Message, check(resp, err, &apiErr)
}

func (c *apiClient) DeleteCommand(name string) (string, error) {
	var out apiMessage
	var apiErr apiError
	resp, err := c.rc.R().
		SetPathParam("name", name).
		SetResult(&out).
		SetError(&apiErr).
		Delete("/api/commands/{name}")
	return out.Message, check(resp, err, &apiErr)
}

func (c *apiClient) Presence() (presence.Info, error) {
	var out presence.Info
	var apiErr apiError
	resp, err := c.rc.R().SetResult(&out).SetError(&apiErr).Get("/api/presence")
	return out, check(resp, err, &apiErr)
}

func (c *apiClient) SetPresence(index int) (string, error) {
	var out apiMessage
	var apiErr apiError
	resp, err := c.rc.R().
		SetBody(map[string]int{"stateIndex": index}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/presence/state")
	return out.Message, check(resp, err, &apiErr)
}
