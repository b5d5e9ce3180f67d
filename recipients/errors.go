package recipients

import "errors"

var (
	// ErrNoRecipients indicates the CSV contains no payout rows.
	ErrNoRecipients = errors.New("recipients: no recipients")

	// ErrMissingColumn indicates a required CSV column is absent.
	ErrMissingColumn = errors.New("recipients: missing column")

	// ErrMalformedRow indicates a row with too few columns.
	ErrMalformedRow = errors.New("recipients: malformed row")

	// ErrInvalidAmount indicates an amount that is not a positive whole
	// number of lovelace.
	ErrInvalidAmount = errors.New("recipients: invalid amount")

	// ErrNonPositiveAmount indicates a zero or negative amount.
	ErrNonPositiveAmount = errors.New("recipients: non-positive amount")

	// ErrDuplicateAddress indicates the same destination appears twice.
	ErrDuplicateAddress = errors.New("recipients: duplicate address")
)
