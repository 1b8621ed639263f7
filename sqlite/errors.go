package sqlite

import "errors"

var (
	// ErrDBRequired is returned when a nil *sql.DB is provided.
	ErrDBRequired = errors.New("syncbox sqlite: db is required")
	// ErrDomainRequired is returned when a cache is built without a domain name.
	ErrDomainRequired = errors.New("syncbox sqlite: domain is required")
	// ErrTableNameRequired is returned when the table name is empty.
	ErrTableNameRequired = errors.New("syncbox sqlite: table name is required")
	// ErrInvalidTableName is returned when the table name has disallowed characters.
	ErrInvalidTableName = errors.New("syncbox sqlite: invalid table name")
)
