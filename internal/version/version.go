// Package version carries the launcher's build identity.
package version

const (
	Name    = "VSLauncher"
	Current = "1.0.2"
)
