package chain

import "errors"

var (
	// ErrConnectionFailed indicates the client could not reach the ledger API.
	ErrConnectionFailed = errors.New("chain: connection failed")

	// ErrAuthFailed indicates the API rejected the project credentials.
	ErrAuthFailed = errors.New("chain: authentication failed")

	// ErrInvalidResponse indicates the API returned a malformed or
	// unexpected response.
	ErrInvalidResponse = errors.New("chain: invalid response")

	// ErrMissingProjectID indicates no API project id was configured.
	ErrMissingProjectID = errors.New("chain: missing project id")

	// ErrUnknownNetwork indicates a network name with no endpoint preset.
	ErrUnknownNetwork = errors.New("chain: unknown network")
)
