package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMuteRolesEnsureCreatesOnce(t *testing.T) {
	p := newStubPlatform()
	roles := NewMuteRoles(p, "Muted")

	_, ok, err := roles.Lookup(testGuild)
	require.NoError(t, err)
	assert.False(t, ok)

	first, err := roles.Ensure(testGuild)
	require.NoError(t, err)
	second, err := roles.Ensure(testGuild)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, p.MutationsWithPrefix("createrole"), 1)
	assert.Len(t, p.MutationsWithPrefix("deny"), len(p.channels))
}

func TestMuteRolesForget(t *testing.T) {
	p := newStubPlatform()
	p.roles["Muted"] = "old"
	roles := NewMuteRoles(p, "Muted")

	id, ok, err := roles.Lookup(testGuild)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "old", id)

	// deleted on the platform, cache still has it
	delete(p.roles, "Muted")
	id, _, _ = roles.Lookup(testGuild)
	assert.Equal(t, "old", id)

	roles.ForgetRole(testGuild, "other")
	id, _, _ = roles.Lookup(testGuild)
	assert.Equal(t, "old", id)

	roles.ForgetRole(testGuild, "old")
	_, ok, _ = roles.Lookup(testGuild)
	assert.False(t, ok)
}
