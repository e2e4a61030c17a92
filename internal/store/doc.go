// Package store defines the persistence contracts for explorers, experiences,
// narratives, galleries and featured experiences, plus the transaction helper
// services use to group writes. Implementations live in platform/postgres.
package store
