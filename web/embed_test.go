package web

import (
	"io/fs"
	"testing"
)

func TestAssetsContainClient(t *testing.T) {
	for _, name := range []string{"index.html", "script.js", "styles.css"} {
		if _, err := fs.Stat(Assets(), name); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}
