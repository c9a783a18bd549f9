package moderation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/GTANeijasAcc/GTANBot/utils"
	"github.com/bwmarrin/discordgo"
)

// stubPlatform is an in-memory guild that records every call.
type stubPlatform struct {
	mu sync.Mutex

	agentID      string
	agentPerms   int64
	guildName    string
	members      map[string]*Member
	notRemovable map[string]bool
	roles        map[string]string
	channels     []string
	logChannel   string

	dmErr       error
	banErr      error
	kickErr     error
	overrideErr map[string]error

	mutations []string
	dms       []string
	embeds    map[string][]*discordgo.MessageEmbed
	nextRole  int
}

func newStubPlatform() *stubPlatform {
	return &stubPlatform{
		agentID:      "bot",
		agentPerms:   discordgo.PermissionAdministrator,
		guildName:    "GTA Neijas",
		members:      make(map[string]*Member),
		notRemovable: make(map[string]bool),
		roles:        make(map[string]string),
		channels:     []string{"c1", "c2", "c3"},
		logChannel:   "modlogs",
		overrideErr:  make(map[string]error),
		embeds:       make(map[string][]*discordgo.MessageEmbed),
	}
}

func (p *stubPlatform) addMember(id string, roles ...string) *stubPlatform {
	p.mu.Lock()
	p.members[id] = &Member{Actor: utils.Actor{ID: id, Roles: roles}, Tag: "user" + id}
	p.mu.Unlock()
	return p
}

func (p *stubPlatform) record(format string, args ...interface{}) {
	p.mutations = append(p.mutations, fmt.Sprintf(format, args...))
}

func (p *stubPlatform) Mutations() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.mutations...)
}

func (p *stubPlatform) MutationsWithPrefix(prefix string) []string {
	var out []string
	for _, m := range p.Mutations() {
		if strings.HasPrefix(m, prefix) {
			out = append(out, m)
		}
	}
	return out
}

func (p *stubPlatform) AgentID() string { return p.agentID }

func (p *stubPlatform) AgentPermissions(string) (int64, error) { return p.agentPerms, nil }

func (p *stubPlatform) GuildName(string) string { return p.guildName }

func (p *stubPlatform) Member(_, userID string) (*Member, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, ok := p.members[userID]
	if !ok {
		return nil, errors.New("unknown member")
	}
	cp := *m
	cp.Roles = append([]string(nil), m.Roles...)
	return &cp, nil
}

func (p *stubPlatform) Removable(_, userID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.notRemovable[userID], nil
}

func (p *stubPlatform) SendDM(userID string, _ *discordgo.MessageEmbed) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dmErr != nil {
		return p.dmErr
	}
	p.dms = append(p.dms, userID)
	return nil
}

func (p *stubPlatform) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.embeds[channelID] = append(p.embeds[channelID], embed)
	return nil
}

func (p *stubPlatform) Embeds(channelID string) []*discordgo.MessageEmbed {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.embeds[channelID]
}

func (p *stubPlatform) FindChannel(_, name string) (string, bool) {
	if p.logChannel == "" || name != "mod-logs" {
		return "", false
	}
	return p.logChannel, true
}

func (p *stubPlatform) Ban(guildID, userID, reason string, deleteDays int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("ban %s %s %d", userID, reason, deleteDays)
	return p.banErr
}

func (p *stubPlatform) Kick(guildID, userID, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("kick %s %s", userID, reason)
	return p.kickErr
}

func (p *stubPlatform) AddRole(_, userID, roleID, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("addrole %s %s", userID, roleID)
	if m, ok := p.members[userID]; ok {
		m.Roles = append(m.Roles, roleID)
	}
	return nil
}

func (p *stubPlatform) RemoveRole(_, userID, roleID, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("removerole %s %s %s", userID, roleID, reason)
	if m, ok := p.members[userID]; ok {
		kept := m.Roles[:0]
		for _, r := range m.Roles {
			if r != roleID {
				kept = append(kept, r)
			}
		}
		m.Roles = kept
	}
	return nil
}

func (p *stubPlatform) FindRole(_, name string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, ok := p.roles[name]
	return id, ok, nil
}

func (p *stubPlatform) CreateRole(_, name string, color int) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextRole++
	id := fmt.Sprintf("role%d", p.nextRole)
	p.roles[name] = id
	p.record("createrole %s %x", name, color)
	return id, nil
}

func (p *stubPlatform) Channels(string) ([]string, error) {
	return p.channels, nil
}

func (p *stubPlatform) DenyChannel(channelID, roleID string, deny int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("deny %s %s %d", channelID, roleID, deny)
	return p.overrideErr[channelID]
}

// fakeTimers captures AfterFunc calls so tests decide when timers fire.
type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (ft *fakeTimers) AfterFunc(d time.Duration, f func()) stopper {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	ft.timers = append(ft.timers, t)
	return t
}

func (ft *fakeTimers) Fire(i int) {
	ft.mu.Lock()
	t := ft.timers[i]
	ft.mu.Unlock()
	t.f()
}

func (ft *fakeTimers) Len() int {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return len(ft.timers)
}
