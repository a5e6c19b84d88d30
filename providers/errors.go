package providers

import "errors"

var (
	// ErrAuthTokenIsRequired is returned if you are trying to initialize
	// a provider which requires some token to work.
	ErrAuthTokenIsRequired = errors.New("auth token is required")

	// ErrDatabasePathIsRequired is returned if offline provider has no
	// path to its database.
	ErrDatabasePathIsRequired = errors.New("path to the database is required")

	// ErrNotFound is returned if provider does not know anything about
	// given IP address.
	ErrNotFound = errors.New("ip address is not found")

	// ErrIncorrectIP is returned by providers which have to parse IP
	// address and cannot do that.
	ErrIncorrectIP = errors.New("incorrect ip address")

	// ErrDatabaseIsClosed is returned if database provider was closed.
	ErrDatabaseIsClosed = errors.New("database is closed")
)
