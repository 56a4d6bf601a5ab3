package prompt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadFromDirectory walks a directory tree and registers every *.json prompt
// file it finds. Templates without an explicit ID get one derived from their
// path relative to the root, e.g. analysis/timing.json -> analysis.timing.
func LoadFromDirectory(root string) (int, error) {
	registry := Get()
	loaded := 0

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read prompt file %s: %w", path, err)
		}

		var t Template
		if err := json.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("failed to parse prompt file %s: %w", path, err)
		}

		if t.ID == "" {
			t.ID = idFromPath(root, path)
		}

		if err := registry.Register(&t); err != nil {
			return fmt.Errorf("failed to register prompt from %s: %w", path, err)
		}
		loaded++
		return nil
	})
	if err != nil {
		return loaded, err
	}
	return loaded, nil
}

// idFromPath turns resources/prompts/analysis/timing.json into
// "analysis.timing".
func idFromPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, ".json")
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
}
