// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/nephro-digest/pkg/types"
)

// SaveReports renders d to digest-YYYY-MM-DD.txt and digest-YYYY-MM-DD.html
// under cfg.OutputDir, named by the window end (R2.2).
func SaveReports(d types.Digest, cfg types.ReportConfig, generatedAt time.Time) (textPath, htmlPath string, err error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating report directory: %w", err)
	}

	stamp := d.Summary.Window.End.Format("2006-01-02")

	var buf bytes.Buffer
	WriteText(d, cfg, &buf)
	textPath = filepath.Join(cfg.OutputDir, "digest-"+stamp+".txt")
	if err := os.WriteFile(textPath, buf.Bytes(), 0o644); err != nil {
		return "", "", fmt.Errorf("writing text report: %w", err)
	}

	buf.Reset()
	if err := WriteHTML(d, cfg, generatedAt, &buf); err != nil {
		return "", "", fmt.Errorf("rendering HTML report: %w", err)
	}
	htmlPath = filepath.Join(cfg.OutputDir, "digest-"+stamp+".html")
	if err := os.WriteFile(htmlPath, buf.Bytes(), 0o644); err != nil {
		return "", "", fmt.Errorf("writing HTML report: %w", err)
	}

	return textPath, htmlPath, nil
}
