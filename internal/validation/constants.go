package validation

import "regexp"

const (
	// Amount limits
	MinTransactionAmount = 0.01
	MaxTransactionAmount = 10000000.00

	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// String lengths
	MaxUpiIDLength       = 100
	MaxLocationLength    = 200
	MaxReviewNotesLength = 500
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// UPI handles are local-part@provider, e.g. name@okhdfc or 99999@upi.
	upiIDRegex = regexp.MustCompile(`^[a-z0-9.\-_]+@[a-z0-9]+$`)
)
