// Package service holds the application's use cases: explorer accounts,
// experiences and their password gates, narratives with their listings, and
// galleries.
//
// Services receive store interfaces through constructor injection and run
// every mutation inside store.Atomically, which hands the closure the whole
// store bundle bound to one transaction. Permission checks use the predicates in
// internal/domain; a denied request returns domain.ErrPermissionDenied and is
// logged at WARN.
//
// Expected conditions (validation, permission, not found, duplicates) are
// returned unchanged. Anything else is wrapped in a ServiceError naming the
// failed operation; the API layer maps both to HTTP status codes.
package service
