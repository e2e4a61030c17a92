// Package mocks provides in-memory implementations of the store and auth
// interfaces for tests.
//
// Each mock keeps its records in a map so services behave realistically
// without a database. Every method can be overridden with a function field
// for failure injection:
//
//	experiences := mocks.NewMockExperienceStore()
//	experiences.UpdateFn = func(ctx context.Context, e *domain.Experience) error {
//	    return errors.New("boom")
//	}
//
// WithTx returns the mock itself, so a service running inside
// store.RunInTransaction writes to the same maps.
package mocks
