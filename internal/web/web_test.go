package web

import (
	"io/fs"
	"strings"
	"testing"
)

func TestAssetsArePresent(t *testing.T) {
	assets := Assets()

	for _, name := range []string{"index.html", "console.html", "console.js", "styles.css"} {
		data, err := fs.ReadFile(assets, name)
		if err != nil {
			t.Errorf("Expected %s to be embedded, got %v", name, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("Expected %s to be non-empty", name)
		}
	}
}

func TestConsoleTargetsConsoleAPI(t *testing.T) {
	data, err := fs.ReadFile(Assets(), "console.js")
	if err != nil {
		t.Fatalf("Expected console.js, got %v", err)
	}
	if !strings.Contains(string(data), "/api/console/") {
		t.Error("Expected console.js to call the console API")
	}
}
