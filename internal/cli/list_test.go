package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommand(t *testing.T) {
	t.Run("prints plain rows when piped", func(t *testing.T) {
		withTerminal(t, false)
		env := newCLIEnv(t)

		out, _, err := env.run("list")
		require.NoError(t, err)

		assert.Contains(t, out, "1\tRick Sanchez\tHuman\t\n")
		assert.Contains(t, out, "6\tAbadango Cluster Princess\tAlien\t\n")
		assert.NotContains(t, out, "NAME")
	})

	t.Run("prints table on a terminal", func(t *testing.T) {
		withTerminal(t, true)
		env := newCLIEnv(t)

		out, _, err := env.run("list")
		require.NoError(t, err)

		assert.Contains(t, out, "NAME")
		assert.Contains(t, out, "Rick Sanchez")
		assert.Contains(t, out, "Page 1 of 1 (3 characters)")
	})

	t.Run("filters by species", func(t *testing.T) {
		withTerminal(t, false)
		env := newCLIEnv(t)

		out, _, err := env.run("list", "--species", "alien")
		require.NoError(t, err)

		assert.Contains(t, out, "Abadango")
		assert.NotContains(t, out, "Rick Sanchez")
	})

	t.Run("outputs JSON with favorite flags", func(t *testing.T) {
		env := newCLIEnv(t)
		_, _, err := env.run("fav", "2")
		require.NoError(t, err)

		out, _, err := env.run("list", "--json")
		require.NoError(t, err)

		var result listOutput
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		require.Len(t, result.Characters, 3)
		assert.Equal(t, 3, result.Info.Count)
		assert.False(t, result.Characters[0].IsFavorite)
		assert.True(t, result.Characters[1].IsFavorite)
	})

	t.Run("favorites only", func(t *testing.T) {
		withTerminal(t, false)
		env := newCLIEnv(t)
		_, _, err := env.run("fav", "6")
		require.NoError(t, err)

		out, _, err := env.run("list", "--favorites")
		require.NoError(t, err)

		assert.Equal(t, "6\tAbadango Cluster Princess\tAlien\t★\n", out)
	})

	t.Run("reports API error", func(t *testing.T) {
		env := newCLIEnv(t)

		_, _, err := env.run("list", "--name", "nobody")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "There is nothing here")
	})

	t.Run("rejects invalid page", func(t *testing.T) {
		env := newCLIEnv(t)

		_, _, err := env.run("list", "--page", "0")
		assert.ErrorContains(t, err, "invalid page")
		assert.Zero(t, env.api.requests.Load())
	})
}
