package harness

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

var (
	hostPortPattern  = regexp.MustCompile(`127\.0\.0\.1:\d+`)
	localPortPattern = regexp.MustCompile(`localhost:\d+`)
	uuidPattern      = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
	stampPattern     = regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}`)
)

// GoldenManager handles golden file operations.
type GoldenManager struct {
	baseDir string
	update  bool
}

// NewGoldenManager creates a golden file manager.
func NewGoldenManager(baseDir string) *GoldenManager {
	update := os.Getenv("UPDATE_GOLDEN") == "1"
	return &GoldenManager{
		baseDir: baseDir,
		update:  update,
	}
}

// Normalize removes dynamic content (ports, request ids, favorite timestamps).
func (g *GoldenManager) Normalize(output string) string {
	output = hostPortPattern.ReplaceAllString(output, "127.0.0.1:XXXX")
	output = localPortPattern.ReplaceAllString(output, "localhost:XXXX")
	output = uuidPattern.ReplaceAllString(output, "XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX")
	output = stampPattern.ReplaceAllString(output, "YYYY-MM-DD hh:mm")
	return output
}

// Compare compares output against golden file.
func (g *GoldenManager) Compare(t *testing.T, name string, actual string) {
	t.Helper()

	if g.baseDir == "" {
		t.Skip("golden directory not configured")
		return
	}

	goldenPath := filepath.Join(g.baseDir, name+".golden")
	normalized := g.Normalize(actual)

	if g.update {
		g.write(t, goldenPath, normalized)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v\nActual output:\n%s", goldenPath, err, normalized)
	}

	if string(expected) != normalized {
		t.Errorf("output mismatch for %s\n\nExpected:\n%s\n\nActual:\n%s",
			name, string(expected), normalized)
	}
}

func (g *GoldenManager) write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create golden dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write golden file: %v", err)
	}
	t.Logf("Updated golden file: %s", path)
}

// IsUpdateMode returns true if golden files should be updated.
func (g *GoldenManager) IsUpdateMode() bool {
	return g.update
}
