package postgres

import (
	"strings"

	"github.com/google/uuid"
)

// anyIDs is the SQL fragment matching a column against a joinIDs parameter.
const anyIDs = `ANY(string_to_array($1, ',')::uuid[])`

// joinIDs renders ids as a comma separated text parameter for anyIDs.
func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}
