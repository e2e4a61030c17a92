// Package testdb opens the integration-test database and isolates each
// test in a rolled-back transaction. Tests using it are built with the
// integration tag and skip when ACRESSITY_TEST_DATABASE_URL is unset.
package testdb
