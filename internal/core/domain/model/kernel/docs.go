// Package kernel contains shared value objects used across the domain
// model: entity identifiers and geographic coordinates. All types here are
// immutable, validated at construction, and safe for concurrent use.
package kernel
