package errors

func InvalidBodyErr(err error) error {
	return E(Invalid, "invalid request body", err)
}

func ValidationFailedErr(err error) error {
	return E(Invalid, "validation failed", err)
}

func EmptyParamErr(field string) error {
	ve := ValidationErrs()
	ve.Add(field, "cannot be empty")
	return E(Invalid, "validation failed", ve.Err())
}

// DuplicateTransactionErr marks a fingerprint that already has a terminal record.
func DuplicateTransactionErr(fingerprint string) error {
	ve := ValidationErrs()
	ve.Add("fingerprint", fingerprint)
	return E(Conflict, "transaction already processed", ve.Err())
}

// StoreUnavailableErr marks a persistence failure. Fatal for the request:
// skipping the dedup check would break the at-most-once guarantee.
func StoreUnavailableErr(err error) error {
	return E(Unavailable, "transaction store unavailable", err)
}

// GatewayUnavailableErr is the terminal failure after the submitter has
// exhausted its retries.
func GatewayUnavailableErr(err error) error {
	return E(Unavailable, "Payman API unavailable after retries.", err)
}

// GatewayRejectedErr carries the stable user-facing message mapped from a
// structured gateway business error, never the raw provider payload.
func GatewayRejectedErr(message string, err error) error {
	return E(Invalid, message, err)
}
