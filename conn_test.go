package dbroute

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionLifecycle(t *testing.T) {
	ctx := context.Background()
	c := NewConnection(sqliteNode(t, "FIS"))
	assert.False(t, c.IsConnected())

	_, err := c.ExecuteQuery(ctx, "SELECT 1")
	assert.ErrorIs(t, err, ErrNotConnected)
	_, err = c.ExecuteWrite(ctx, "CREATE TABLE pasillo (id_biblioteca TEXT, num_pasillo INTEGER)")
	assert.ErrorIs(t, err, ErrNotConnected)

	require.NoError(t, c.Connect(ctx))
	assert.True(t, c.IsConnected())
	// connecting twice keeps the same handle
	require.NoError(t, c.Connect(ctx))

	_, err = c.ExecuteWrite(ctx, "CREATE TABLE pasillo (id_biblioteca TEXT, num_pasillo INTEGER)")
	require.NoError(t, err)

	n, err := c.ExecuteWrite(ctx, "INSERT INTO pasillo (id_biblioteca, num_pasillo) VALUES (?, ?), (?, ?)", "01", 1, "01", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	rows, err := c.ExecuteQuery(ctx, "SELECT num_pasillo, id_biblioteca FROM pasillo WHERE id_biblioteca = ? ORDER BY num_pasillo", "01")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"num_pasillo", "id_biblioteca"}, rows[0].Columns())
	assert.Equal(t, int64(1), rows[0].Map()["num_pasillo"])
	v, ok := rows[1].Get("ID_BIBLIOTECA")
	assert.True(t, ok)
	assert.Equal(t, "01", v)

	count, ok, err := c.ExecuteScalar(ctx, "SELECT COUNT(*) FROM pasillo")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(2), count)

	_, ok, err = c.ExecuteScalar(ctx, "SELECT num_pasillo FROM pasillo WHERE id_biblioteca = ?", "02")
	require.NoError(t, err)
	assert.False(t, ok, "no rows means absent")

	empty, err := c.ExecuteQuery(ctx, "SELECT * FROM pasillo WHERE id_biblioteca = ?", "02")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, c.Disconnect())
	assert.False(t, c.IsConnected())
	require.NoError(t, c.Disconnect())
	assert.False(t, c.IsConnected())

	_, err = c.ExecuteQuery(ctx, "SELECT * FROM pasillo")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestConnectionConnectFailed(t *testing.T) {
	c := NewConnection(unreachableNode(t, "FIQA"))
	err := c.Connect(context.Background())
	assert.ErrorIs(t, err, ErrConnectFailed)
	assert.Contains(t, err.Error(), "FIQA")
	assert.False(t, c.IsConnected())
}

func TestConnectionUnsupportedType(t *testing.T) {
	c := NewConnection(NodeConfig{Name: "FIS", DBType: "oracle"}, WithConnectPolicy(ConnectPolicy{Attempts: 5}))
	err := c.Connect(context.Background())
	assert.ErrorIs(t, err, ErrConnectFailed)
	assert.Contains(t, err.Error(), "oracle")
}

func TestConnectionStatementFailed(t *testing.T) {
	ctx := context.Background()
	c := NewConnection(sqliteNode(t, "FIS"))
	require.NoError(t, c.Connect(ctx))
	defer c.Disconnect()

	_, err := c.ExecuteQuery(ctx, "SELECT * FROM no_such_view")
	assert.ErrorIs(t, err, ErrStatementFailed)
	assert.Contains(t, err.Error(), "no_such_view")

	_, err = c.ExecuteWrite(ctx, "INSERT INTO no_such_table VALUES (?)", 1)
	assert.ErrorIs(t, err, ErrStatementFailed)

	// the handle survives a failed statement
	assert.True(t, c.IsConnected())
	_, err = c.ExecuteQuery(ctx, "SELECT 1 AS uno")
	assert.NoError(t, err)
}

func TestConnectionProbe(t *testing.T) {
	ctx := context.Background()

	t.Run("reachable", func(t *testing.T) {
		c := NewConnection(sqliteNode(t, "FIS"))
		res := c.Probe(ctx)
		assert.True(t, res.OK, res.Message)
		assert.Contains(t, res.Message, "connected to FIS")
		assert.False(t, c.IsConnected(), "probe does not keep a handle")
	})

	t.Run("live handle untouched", func(t *testing.T) {
		c := NewConnection(sqliteNode(t, "FIS"))
		require.NoError(t, c.Connect(ctx))
		defer c.Disconnect()
		assert.True(t, c.Probe(ctx).OK)
		assert.True(t, c.IsConnected())
		_, err := c.ExecuteQuery(ctx, "SELECT 1")
		assert.NoError(t, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		c := NewConnection(unreachableNode(t, "FIQA"))
		res := c.Probe(ctx)
		assert.False(t, res.OK)
		assert.Contains(t, res.Message, "FIQA")
	})
}

func TestShortVersion(t *testing.T) {
	assert.Equal(t, "3.45.1", shortVersion("3.45.1"))

	long := strings.Repeat("á", 60)
	short := shortVersion(long)
	assert.True(t, utf8.ValidString(short))
	assert.Equal(t, strings.Repeat("á", 50)+"...", short)
}
