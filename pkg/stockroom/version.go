// Package stockroom holds module-wide metadata.
package stockroom

// Version is the current stockroom release.
const Version = "0.1.0"
