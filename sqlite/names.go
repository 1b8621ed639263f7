package sqlite

import "fmt"

// sanitizeTableName accepts plain identifiers only; SQLite table names are
// interpolated into query text and must never carry user input.
func sanitizeTableName(name string) (string, error) {
	if name == "" {
		return "", ErrTableNameRequired
	}
	for i, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}

		return "", fmt.Errorf("%w: %s", ErrInvalidTableName, name)
	}

	return name, nil
}
