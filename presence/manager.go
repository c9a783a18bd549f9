package presence

import (
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/GTANeijasAcc/GTANBot/config"
	"github.com/GTANeijasAcc/GTANBot/utils"
	"github.com/bwmarrin/discordgo"
)

var logger = utils.GetLogger("presence")

var ErrInvalidState = errors.Sentinel("invalid state index")

// StatusUpdater is implemented by *discordgo.Session.
type StatusUpdater interface {
	UpdateStatusComplex(usd discordgo.UpdateStatusData) error
}

// Info is the presence as reported to the dashboard.
type Info struct {
	GameName         string   `json:"gameName"`
	Details          string   `json:"details"`
	CurrentState     string   `json:"currentState"`
	StateIndex       int      `json:"stateIndex"`
	TotalStates      int      `json:"totalStates"`
	States           []string `json:"states"`
	RotationInterval int64    `json:"rotationInterval"`
}

// Manager rotates the rich presence through the configured states. The
// current index is not persisted.
type Manager struct {
	cfg     config.PresenceConfig
	updater StatusUpdater

	mu      sync.Mutex
	index   int
	stop    chan struct{}
	stopped chan struct{}
}

func New(cfg config.PresenceConfig, updater StatusUpdater) *Manager {
	return &Manager{
		cfg:     cfg,
		updater: updater,
	}
}

// Start applies the first state and rotates every interval until Stop.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.stop != nil {
		m.mu.Unlock()
		return
	}
	m.stop = make(chan struct{})
	m.stopped = make(chan struct{})
	stop, stopped := m.stop, m.stopped
	m.applyLocked()
	m.mu.Unlock()

	interval := m.cfg.RotationInterval()
	logger.Infof("Presence rotation started, rotating every %s", interval)

	go func() {
		defer close(stopped)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.Rotate()
			case <-stop:
				return
			}
		}
	}()
}

// Stop ends the rotation. The last applied state stays visible.
func (m *Manager) Stop() {
	m.mu.Lock()
	stop, stopped := m.stop, m.stopped
	m.stop, m.stopped = nil, nil
	m.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-stopped
	logger.Info("Presence rotation stopped")
}

// Rotate advances to the next state and applies it.
func (m *Manager) Rotate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.index = (m.index + 1) % len(m.cfg.States)
	m.applyLocked()
}

// SetState applies the state at index i. The rotation continues from there.
func (m *Manager) SetState(i int) error {
	if i < 0 || i >= len(m.cfg.States) {
		return errors.WithDetails(ErrInvalidState, "index", i, "states", len(m.cfg.States))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.index = i
	return m.applyLocked()
}

func (m *Manager) Info() Info {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Info{
		GameName:         m.cfg.GameName,
		Details:          m.cfg.Details,
		CurrentState:     m.cfg.States[m.index],
		StateIndex:       m.index,
		TotalStates:      len(m.cfg.States),
		States:           append([]string(nil), m.cfg.States...),
		RotationInterval: m.cfg.RotationInterval().Milliseconds(),
	}
}

func (m *Manager) activity() *discordgo.Activity {
	return &discordgo.Activity{
		Name:    m.cfg.GameName,
		Type:    discordgo.ActivityTypeGame,
		Details: m.cfg.Details,
		State:   m.cfg.States[m.index],
		Assets: discordgo.Assets{
			LargeImageID: m.cfg.BigImageKey,
			LargeText:    m.cfg.BigImageText,
			SmallImageID: m.cfg.SmallImageKey,
			SmallText:    m.cfg.SmallImageText,
		},
	}
}

func (m *Manager) applyLocked() error {
	state := m.cfg.States[m.index]

	err := m.updater.UpdateStatusComplex(discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{m.activity()},
		Status:     string(discordgo.StatusOnline),
	})
	if err != nil {
		logger.WithError(err).WithField("state", state).Error("Failed updating presence")
		return errors.WithMessage(err, "update presence")
	}

	logger.WithField("state", state).Debug("Updated presence")
	return nil
}
