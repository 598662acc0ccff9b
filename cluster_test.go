package dbroute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterConfig(t *testing.T) {
	cluster := NewClusterConfig("fis",
		NodeConfig{Name: "fis", Server: "WIN-PHDDNKD39M9", Port: 1433, Database: "FIS"},
		NodeConfig{Name: " Fiqa ", Server: "Slim", Port: 1433, Database: "FIQA"},
	)

	assert.Equal(t, []string{"FIQA", "FIS"}, cluster.Names())
	assert.Equal(t, "FIS", cluster.PrimaryName())

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		for _, name := range []string{"FIQA", "fiqa", "FiQa", " fiqa"} {
			n, err := cluster.Get(name)
			require.NoError(t, err, name)
			assert.Equal(t, "FIQA", n.Name)
			assert.Equal(t, "Slim", n.Server)
			assert.False(t, n.IsPrimary)
		}
	})

	t.Run("unknown node", func(t *testing.T) {
		_, err := cluster.Get("FIEC")
		assert.ErrorIs(t, err, ErrUnknownNode)
		assert.Contains(t, err.Error(), "FIEC")
		assert.False(t, cluster.Has("FIEC"))
	})

	t.Run("primary", func(t *testing.T) {
		p, err := cluster.Primary()
		require.NoError(t, err)
		assert.Equal(t, "FIS", p.Name)
		assert.True(t, p.IsPrimary)
	})
}

func TestClusterConfigPrimaryUndefined(t *testing.T) {
	// building never fails, resolving does
	cluster := NewClusterConfig("FIEC", NodeConfig{Name: "FIS"}, NodeConfig{Name: "FIQA"})
	require.Len(t, cluster.Nodes(), 2)

	_, err := cluster.Primary()
	assert.ErrorIs(t, err, ErrPrimaryUndefined)
	assert.Contains(t, err.Error(), "FIEC")

	for _, n := range cluster.Nodes() {
		assert.False(t, n.IsPrimary, n.Name)
	}
}
