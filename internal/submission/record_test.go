package submission

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLog(t *testing.T) {
	log := NewMemoryLog(3)

	for i := 0; i < 5; i++ {
		require.NoError(t, log.Push(t.Context(), Record{ID: fmt.Sprint(i)}))
	}

	all, err := log.Recent(t.Context(), 0)
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, r := range all {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"4", "3", "2"}, ids)

	two, err := log.Recent(t.Context(), 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
	assert.Equal(t, "4", two[0].ID)
}
