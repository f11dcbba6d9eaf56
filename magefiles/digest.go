//go:build mage

package main

// Digest runs the full weekly pipeline: fetch, classify, aggregate,
// summarize, archive, and report. See prd005-digest for full requirements.
func Digest() error {
	return runStage("digest")
}
