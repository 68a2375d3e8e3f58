// Package types defines the configuration, paged result and entity types,
// and standard error types for the stockroom data-access layer.
package types
