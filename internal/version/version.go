// ABOUTME: Version constants for clipdeck binaries
// ABOUTME: Product identity printed by -version and logged at startup
package version

import "fmt"

const (
	// Version is the release version
	Version = "0.1.0"

	// Product is the product name
	Product = "clipdeck"

	// Manufacturer is who ships the product
	Manufacturer = "Resonate Protocol"
)

// String returns the product and version on one line
func String() string {
	return fmt.Sprintf("%s %s (%s)", Product, Version, Manufacturer)
}
