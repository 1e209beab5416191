// Package kernel contains shared value objects used across all domain
// aggregates: UUID identifiers and geographic locations. Both are immutable
// and must be created through their constructor functions; zero values fail
// validation.
package kernel
