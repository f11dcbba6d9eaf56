//go:build mage

package main

// Report prints the most recent stored digest as text.
// See prd007-report for full requirements.
func Report() error {
	return runStage("report")
}
