// Package discordtest builds discordgo sessions whose REST calls are
// answered by an in-memory transport and recorded for assertions.
package discordtest

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/jarcoal/httpmock"
)

// Request is one REST call made by the session
type Request struct {
	Method string
	URL    string
	Body   []byte
}

// Recorder answers every request with an empty JSON object and keeps it
type Recorder struct {
	mu       sync.Mutex
	requests []Request
}

func (r *Recorder) respond(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}

	r.mu.Lock()
	r.requests = append(r.requests, Request{Method: req.Method, URL: req.URL.String(), Body: body})
	r.mu.Unlock()

	resp := httpmock.NewStringResponse(http.StatusOK, "{}")
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

// Requests returns a copy of everything recorded so far
func (r *Recorder) Requests() []Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Request(nil), r.requests...)
}

type payload struct {
	Content string                    `json:"content"`
	Embeds  []*discordgo.MessageEmbed `json:"embeds"`
	Data    *struct {
		Content string                    `json:"content"`
		Embeds  []*discordgo.MessageEmbed `json:"embeds"`
	} `json:"data"`
}

func (r *Recorder) payloads() []payload {
	var out []payload
	for _, req := range r.Requests() {
		var p payload
		if json.Unmarshal(req.Body, &p) != nil {
			continue
		}
		if p.Data != nil {
			p.Content, p.Embeds = p.Data.Content, p.Data.Embeds
		}
		out = append(out, p)
	}
	return out
}

// Contents lists the message content of every interaction response and
// channel message sent, in order.
func (r *Recorder) Contents() []string {
	var out []string
	for _, p := range r.payloads() {
		if p.Content != "" {
			out = append(out, p.Content)
		}
	}
	return out
}

// EmbedTitles lists the titles of every embed sent, in order.
func (r *Recorder) EmbedTitles() []string {
	var out []string
	for _, p := range r.payloads() {
		for _, e := range p.Embeds {
			out = append(out, e.Title)
		}
	}
	return out
}

// NewSession returns a session with the given guilds in its state and all
// REST traffic going to the returned recorder.
func NewSession(guilds ...*discordgo.Guild) (*discordgo.Session, *Recorder) {
	s, _ := discordgo.New("Bot test")
	s.State.User = &discordgo.User{ID: "bot", Username: "GTANBot"}
	for _, g := range guilds {
		s.State.GuildAdd(g)
	}

	rec := &Recorder{}
	transport := httpmock.NewMockTransport()
	transport.RegisterNoResponder(rec.respond)
	s.Client = &http.Client{Transport: transport}
	return s, rec
}

// Guild is a guild owned by "owner" with only the @everyone role
func Guild(id string) *discordgo.Guild {
	return &discordgo.Guild{
		ID:      id,
		Name:    "Test Guild",
		OwnerID: "owner",
		Roles:   []*discordgo.Role{{ID: id, Name: "@everyone"}},
	}
}

// Member builds an invoking member with explicit permissions and roles
func Member(userID string, perms int64, roles ...string) *discordgo.Member {
	return &discordgo.Member{
		User:        &discordgo.User{ID: userID, Username: "user-" + userID},
		Permissions: perms,
		Roles:       roles,
	}
}

// SlashCommand builds an application command interaction
func SlashCommand(guildID string, member *discordgo.Member, name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "interaction",
		Token:     "token",
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   guildID,
		ChannelID: "channel",
		Member:    member,
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    name,
			Options: options,
		},
	}}
}
