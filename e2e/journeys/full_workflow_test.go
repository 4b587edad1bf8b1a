package journeys

import (
	"strings"
	"testing"
	"time"

	"github.com/devspace/rickterm/e2e/harness"
)

// TestFullWorkflow_FavoritesPersist covers the complete workflow:
// 1. Favorite a character in the TUI
// 2. Quit and check the store
// 3. List favorites with the CLI, offline data only
// 4. Start a new TUI session and see the flag restored
// 5. Unfavorite with the CLI and see it gone in a third session
func TestFullWorkflow_FavoritesPersist(t *testing.T) {
	h := harness.New(t, harness.Config{})

	t.Log("Step 1: favorite Morty from the detail screen")
	session := h.TUI().Start(t)
	if err := session.WaitForLoaded(); err != nil {
		t.Fatal(err)
	}
	session.SendKeys("l", "enter")
	if !session.WaitFor(func() bool { return session.State().Detail.Status == "loaded" }, 5*time.Second) {
		t.Fatal("detail did not load")
	}
	session.SendKey("f")
	if !session.WaitFor(func() bool { return session.State().Detail.Favorite }, 5*time.Second) {
		t.Fatal("detail favorite flag not set")
	}

	t.Log("Step 2: quit and verify the store")
	if !session.Verifier().IsFavorite(2) {
		t.Error("expected Morty to be stored as favorite")
	}
	if got := session.Verifier().FavoriteCount(); got != 1 {
		t.Errorf("expected 1 favorite, got %d", got)
	}
	session.Quit()

	t.Log("Step 3: CLI lists the favorite")
	result, err := h.CLI().FavList()
	if err != nil {
		t.Fatalf("fav list failed: %v\n%s", err, result.Stderr)
	}
	if !strings.Contains(result.Stdout, "Morty Smith") {
		t.Errorf("expected Morty in fav list, got:\n%s", result.Stdout)
	}

	t.Log("Step 4: new session restores the flag")
	session = h.TUI().Start(t)
	if err := session.WaitForLoaded(); err != nil {
		t.Fatal(err)
	}
	if ids := session.State().Grid.FavoriteIDs; len(ids) != 1 || ids[0] != 2 {
		t.Errorf("expected favorites [2], got %v", ids)
	}
	session.Quit()

	t.Log("Step 5: CLI toggles it off")
	result, err = h.CLI().Fav(2)
	if err != nil {
		t.Fatalf("fav failed: %v", err)
	}
	harness.NewAssertions(t).OutputContains(result.Stdout, "Removed Morty Smith (#002)")

	session = h.TUI().Start(t)
	if err := session.WaitForLoaded(); err != nil {
		t.Fatal(err)
	}
	if ids := session.State().Grid.FavoriteIDs; len(ids) != 0 {
		t.Errorf("expected no favorites, got %v", ids)
	}
}

// TestFullWorkflow_CacheServesRepeatLoads checks that a second session is
// served from the response cache.
func TestFullWorkflow_CacheServesRepeatLoads(t *testing.T) {
	h := harness.New(t, harness.Config{})

	session := h.TUI().Start(t)
	if err := session.WaitForLoaded(); err != nil {
		t.Fatal(err)
	}
	session.Quit()
	first := h.Server().CountPath("/api/character")
	if first != 1 {
		t.Fatalf("expected one list request, got %d", first)
	}

	session = h.TUI().Start(t)
	if err := session.WaitForLoaded(); err != nil {
		t.Fatal(err)
	}
	if got := h.Server().CountPath("/api/character"); got != first {
		t.Errorf("expected cached list, server saw %d requests", got)
	}
}
