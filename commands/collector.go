package commands

import (
	"context"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/bwmarrin/discordgo"
)

var ErrCollectorTimeout = errors.Sentinel("collector window closed without a selection")

// Delivery is what happened to a component interaction handed to the collector.
type Delivery int

const (
	// DeliveryUnclaimed means no collector is waiting for the component.
	DeliveryUnclaimed Delivery = iota
	DeliveryAccepted
	// DeliveryRejected means a collector is waiting but its filter refused the interaction.
	DeliveryRejected
)

// ComponentFilter decides whether an interaction may complete a collector. A
// non empty result rejects it and is shown to the interacting user.
type ComponentFilter func(i *discordgo.InteractionCreate) (reject string)

type componentWaiter struct {
	filter ComponentFilter
	result chan *discordgo.InteractionCreate
}

// ComponentCollector routes message component interactions to commands
// awaiting them by custom id. Each waiter takes the first accepted interaction.
type ComponentCollector struct {
	mu      sync.Mutex
	waiters map[string]*componentWaiter
}

func NewComponentCollector() *ComponentCollector {
	return &ComponentCollector{waiters: make(map[string]*componentWaiter)}
}

// Components is the collector fed by the interaction handler.
var Components = NewComponentCollector()

// Await blocks until an interaction for customID passes filter, the window
// elapses or ctx is done. The window is closed in every case.
func (c *ComponentCollector) Await(ctx context.Context, customID string, window time.Duration, filter ComponentFilter) (*discordgo.InteractionCreate, error) {
	w := &componentWaiter{
		filter: filter,
		result: make(chan *discordgo.InteractionCreate, 1),
	}

	c.mu.Lock()
	if _, taken := c.waiters[customID]; taken {
		c.mu.Unlock()
		return nil, errors.Errorf("collector for %q already waiting", customID)
	}
	c.waiters[customID] = w
	c.mu.Unlock()

	timer := time.NewTimer(window)
	defer timer.Stop()

	var err error
	select {
	case i := <-w.result:
		return i, nil
	case <-timer.C:
		err = ErrCollectorTimeout
	case <-ctx.Done():
		err = ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.waiters[customID] == w {
		delete(c.waiters, customID)
	}

	// A selection may have been accepted right as the window closed
	select {
	case i := <-w.result:
		return i, nil
	default:
		return nil, err
	}
}

// Deliver hands a component interaction to the collector waiting for its
// custom id. Rejections come with the filter's message.
func (c *ComponentCollector) Deliver(i *discordgo.InteractionCreate) (Delivery, string) {
	if i.Type != discordgo.InteractionMessageComponent {
		return DeliveryUnclaimed, ""
	}
	customID := i.MessageComponentData().CustomID

	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.waiters[customID]
	if !ok {
		return DeliveryUnclaimed, ""
	}
	if w.filter != nil {
		if reject := w.filter(i); reject != "" {
			return DeliveryRejected, reject
		}
	}

	// First valid selection closes the window
	delete(c.waiters, customID)
	w.result <- i
	return DeliveryAccepted, ""
}

// Waiting reports whether a collector is open for customID.
func (c *ComponentCollector) Waiting(customID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.waiters[customID]
	return ok
}
