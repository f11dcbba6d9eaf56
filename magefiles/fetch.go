//go:build mage

package main

// Fetch pulls the current window of nephrology articles from PubMed.
// See prd001-fetch for full requirements.
func Fetch() error {
	return runStage("fetch")
}
