package cli

import (
	"encoding/json"
	"testing"

	"github.com/devspace/rickterm/internal/favorites"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavCommand(t *testing.T) {
	t.Run("toggles on and off", func(t *testing.T) {
		env := newCLIEnv(t)

		out, _, err := env.run("fav", "1")
		require.NoError(t, err)
		assert.Equal(t, "Added Rick Sanchez (#001) to favorites\n", out)

		out, _, err = env.run("fav", "1")
		require.NoError(t, err)
		assert.Equal(t, "Removed Rick Sanchez (#001) from favorites\n", out)
	})

	t.Run("unknown character is not stored", func(t *testing.T) {
		env := newCLIEnv(t)

		_, _, err := env.run("fav", "404")
		require.Error(t, err)

		out, _, err := env.run("fav", "list")
		require.NoError(t, err)
		assert.Equal(t, "No favorites yet\n", out)
	})
}

func TestFavListCommand(t *testing.T) {
	t.Run("lists snapshots newest first", func(t *testing.T) {
		env := newCLIEnv(t)
		_, _, err := env.run("fav", "1")
		require.NoError(t, err)
		_, _, err = env.run("fav", "6")
		require.NoError(t, err)

		out, _, err := env.run("fav", "list", "--json")
		require.NoError(t, err)

		var records []favorites.Record
		require.NoError(t, json.Unmarshal([]byte(out), &records))
		require.Len(t, records, 2)
		assert.Equal(t, "Abadango Cluster Princess", records[0].Name)
		assert.Equal(t, "Rick Sanchez", records[1].Name)
	})

	t.Run("works without the API", func(t *testing.T) {
		withTerminal(t, false)
		env := newCLIEnv(t)
		_, _, err := env.run("fav", "2")
		require.NoError(t, err)

		env.api.Close()
		out, _, err := env.run("fav", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "2\tMorty Smith\tHuman\t")
	})
}

func TestFavClearCommand(t *testing.T) {
	env := newCLIEnv(t)
	_, _, err := env.run("fav", "1")
	require.NoError(t, err)
	_, _, err = env.run("fav", "2")
	require.NoError(t, err)

	out, _, err := env.run("fav", "clear")
	require.NoError(t, err)
	assert.Equal(t, "Removed 2 favorites\n", out)

	out, _, err = env.run("fav", "list")
	require.NoError(t, err)
	assert.Equal(t, "No favorites yet\n", out)
}
