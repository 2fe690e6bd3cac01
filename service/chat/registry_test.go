package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(connID, userID string) *Client {
	return NewClient(connID, userID, nil, 8)
}

func TestRegisterFirstConnection(t *testing.T) {
	r := NewRegistry()
	c := newTestClient("conn-1", "alice")

	evicted, changed := r.Register(c)
	require.True(t, changed)
	assert.Empty(t, evicted)

	got, ok := r.Lookup("alice")
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.Equal(t, []string{"alice"}, r.Roster())
}

func TestRegisterSamePairIsNoop(t *testing.T) {
	r := NewRegistry()
	c := newTestClient("conn-1", "alice")

	_, changed := r.Register(c)
	require.True(t, changed)

	// A heartbeating client re-sending register must not look like a
	// presence change.
	evicted, changed := r.Register(c)
	assert.False(t, changed)
	assert.Empty(t, evicted)
	assert.Equal(t, 1, r.Len())
}

func TestRegisterSecondTabEvictsFirst(t *testing.T) {
	r := NewRegistry()
	tab1 := newTestClient("conn-1", "alice")
	tab2 := newTestClient("conn-2", "alice")

	_, changed := r.Register(tab1)
	require.True(t, changed)

	evicted, changed := r.Register(tab2)
	require.True(t, changed)
	require.Len(t, evicted, 1)
	assert.Same(t, tab1, evicted[0])

	got, ok := r.Lookup("alice")
	require.True(t, ok)
	assert.Same(t, tab2, got)
	assert.Equal(t, 1, r.Len())

	// The evicted tab's disconnect must not take the new binding down.
	uid, ok := r.Unregister("conn-1")
	assert.False(t, ok)
	assert.Empty(t, uid)
	_, ok = r.Lookup("alice")
	assert.True(t, ok)
}

func TestUnregisterFreesUser(t *testing.T) {
	r := NewRegistry()
	r.Register(newTestClient("conn-1", "alice"))
	r.Register(newTestClient("conn-2", "bob"))

	uid, ok := r.Unregister("conn-1")
	require.True(t, ok)
	assert.Equal(t, "alice", uid)

	_, ok = r.Lookup("alice")
	assert.False(t, ok)
	assert.Equal(t, []string{"bob"}, r.Roster())
}

func TestUnregisterUnknownConn(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Unregister("nope")
	assert.False(t, ok)
}

func TestRosterIsSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(newTestClient("c1", "zoe"))
	r.Register(newTestClient("c2", "adam"))
	r.Register(newTestClient("c3", "mia"))

	assert.Equal(t, []string{"adam", "mia", "zoe"}, r.Roster())
}

func TestRegisterRejectsIncomplete(t *testing.T) {
	r := NewRegistry()

	_, changed := r.Register(nil)
	assert.False(t, changed)

	_, changed = r.Register(newTestClient("", "alice"))
	assert.False(t, changed)

	_, changed = r.Register(newTestClient("conn-1", ""))
	assert.False(t, changed)

	assert.Equal(t, 0, r.Len())
}
