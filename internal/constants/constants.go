// Package constants defines application-wide constants and version information.
package constants

import "runtime"

// Version holds the application version information
const Version = "1.2-" + runtime.GOOS + "/" + runtime.GOARCH

// EnvPrefix is prepended to every environment variable the service reads.
const EnvPrefix = "REMOTEWATER_"
