// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nephro-digest/pkg/types"
)

// batchFile is the on-disk form of one fetched batch. The window rides
// along so the analysis stages can replay a batch without guessing its
// date range from the file name.
type batchFile struct {
	Window   types.Window    `yaml:"window"`
	Articles []types.Article `yaml:"articles"`
}

// BatchPath returns the batch file path for window w under dataDir.
// Batches are named by window end, one file per week.
func BatchPath(dataDir string, w types.Window) string {
	return filepath.Join(dataDir, "articles-"+w.End.Format("2006-01-02")+".yaml")
}

// SaveBatch writes the fetched batch to its window's file under dataDir
// (R5.1). A re-fetch of the same window overwrites the previous file.
func SaveBatch(dataDir string, w types.Window, articles []types.Article) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}

	data, err := yaml.Marshal(batchFile{Window: w, Articles: articles})
	if err != nil {
		return "", fmt.Errorf("encoding batch: %w", err)
	}

	path := BatchPath(dataDir, w)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing batch file: %w", err)
	}
	return path, nil
}

// LoadBatch reads a batch file written by SaveBatch (R5.2).
func LoadBatch(path string) (types.Window, []types.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Window{}, nil, fmt.Errorf("reading batch file: %w", err)
	}

	var batch batchFile
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return types.Window{}, nil, fmt.Errorf("parsing batch file %s: %w", path, err)
	}
	return batch.Window, batch.Articles, nil
}

// LatestBatch returns the path of the newest batch file under dataDir
// (R5.3), or ErrNotFound when none exist. File names embed the window
// end date, so lexicographic order is chronological.
func LatestBatch(dataDir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dataDir, "articles-*.yaml"))
	if err != nil {
		return "", fmt.Errorf("scanning data directory: %w", err)
	}
	if len(matches) == 0 {
		return "", ErrNotFound
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
