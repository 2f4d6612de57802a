package cli

type Options struct {
	// Codes are scanned in order in one-shot mode.
	Codes    []string
	Checkout bool
	JSON     bool
	Currency string
}
