package commands

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func componentFrom(userID, customID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:   discordgo.InteractionMessageComponent,
		Member: &discordgo.Member{User: &discordgo.User{ID: userID}},
		Data:   discordgo.MessageComponentInteractionData{CustomID: customID},
	}}
}

func onlyUser(id string) ComponentFilter {
	return func(i *discordgo.InteractionCreate) string {
		if Invoker(i).ID != id {
			return "not yours"
		}
		return ""
	}
}

func waitFor(t *testing.T, c *ComponentCollector, customID string) {
	t.Helper()
	require.Eventually(t, func() bool { return c.Waiting(customID) }, time.Second, time.Millisecond)
}

func TestCollectorAcceptsFirstMatchingInteraction(t *testing.T) {
	c := NewComponentCollector()

	done := make(chan *discordgo.InteractionCreate, 1)
	go func() {
		i, err := c.Await(context.Background(), "select_channel", time.Minute, onlyUser("u1"))
		assert.NoError(t, err)
		done <- i
	}()
	waitFor(t, c, "select_channel")

	delivery, reject := c.Deliver(componentFrom("u2", "select_channel"))
	assert.Equal(t, DeliveryRejected, delivery)
	assert.Equal(t, "not yours", reject)
	assert.True(t, c.Waiting("select_channel"))

	want := componentFrom("u1", "select_channel")
	delivery, _ = c.Deliver(want)
	assert.Equal(t, DeliveryAccepted, delivery)

	select {
	case got := <-done:
		assert.Same(t, want, got)
	case <-time.After(time.Second):
		t.Fatal("collector never returned")
	}

	assert.False(t, c.Waiting("select_channel"))
	delivery, _ = c.Deliver(componentFrom("u1", "select_channel"))
	assert.Equal(t, DeliveryUnclaimed, delivery)
}

func TestCollectorTimeout(t *testing.T) {
	c := NewComponentCollector()

	_, err := c.Await(context.Background(), "late", 10*time.Millisecond, nil)
	assert.ErrorIs(t, err, ErrCollectorTimeout)
	assert.False(t, c.Waiting("late"))
}

func TestCollectorContextCancel(t *testing.T) {
	c := NewComponentCollector()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Await(ctx, "cancelled", time.Minute, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, c.Waiting("cancelled"))
}

func TestCollectorRejectsSecondWaiter(t *testing.T) {
	c := NewComponentCollector()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go c.Await(ctx, "busy", time.Minute, nil)
	waitFor(t, c, "busy")

	_, err := c.Await(context.Background(), "busy", time.Minute, nil)
	assert.Error(t, err)
}

func TestCollectorIgnoresOtherInteractionTypes(t *testing.T) {
	c := NewComponentCollector()
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{Name: "ping"},
	}}

	delivery, _ := c.Deliver(i)
	assert.Equal(t, DeliveryUnclaimed, delivery)
}
