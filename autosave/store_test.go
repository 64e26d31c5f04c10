package autosave

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	val, err := s.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.Empty(t, val, "absent key reads as empty, not an error")

	assert.NoError(t, s.Set(ctx, "k", `{"name":"Lamp"}`))
	val, err = s.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Equal(t, `{"name":"Lamp"}`, val)

	// Last write wins.
	assert.NoError(t, s.Set(ctx, "k", `{"name":"Desk"}`))
	val, _ = s.Get(ctx, "k")
	assert.Equal(t, `{"name":"Desk"}`, val)

	assert.NoError(t, s.Remove(ctx, "k"))
	val, _ = s.Get(ctx, "k")
	assert.Empty(t, val)
}

func TestDraftKeyScoping(t *testing.T) {
	assert.Equal(t, DraftKeyPrefix, DraftKey(""))
	assert.Equal(t, DraftKeyPrefix+":staff-42", DraftKey("staff-42"))
}
