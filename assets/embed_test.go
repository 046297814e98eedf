package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_SortedAndNonEmpty(t *testing.T) {
	ms, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, ms)
	assert.Equal(t, "migrations/001_sessions.sql", ms[0].Name)
	for i := 1; i < len(ms); i++ {
		assert.Less(t, ms[i-1].Name, ms[i].Name)
	}
	assert.Contains(t, ms[0].SQL, "CREATE TABLE IF NOT EXISTS sessions")
}
