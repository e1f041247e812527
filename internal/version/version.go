// ABOUTME: Product and version constants
// ABOUTME: Identifies the client in logs, the TUI and mDNS records
package version

const (
	// Version is the release version
	Version = "0.3.0"

	// Product is the product name
	Product = "Scribe"

	// Manufacturer identifies the publisher
	Manufacturer = "Resonate"
)
