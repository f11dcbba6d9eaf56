//go:build mage

package main

// Serve starts the digest dashboard on the configured address.
// See docs/ARCHITECTURE § Dashboard.
func Serve() error {
	return runStage("serve")
}
