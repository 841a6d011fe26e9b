package errors

import "errors"

var (
	ErrNotConnected          = errors.New("accounting system is not connected")
	ErrInvalidState          = errors.New("oauth state is missing or does not match")
	ErrProviderDenied        = errors.New("authorization was denied by the provider")
	ErrMissingCallbackParams = errors.New("callback is missing code or realm id")
	ErrTokenExchangeFailed   = errors.New("authorization code exchange failed")
	ErrSignatureInvalid      = errors.New("webhook signature is invalid")
	ErrWebhookNotConfigured  = errors.New("webhook verifier token is not configured")
	ErrPersistenceFailed     = errors.New("failed to persist record")
	ErrInvoiceNotFound       = errors.New("invoice not found")
	ErrInvoiceNotSynced      = errors.New("invoice has not been synced from the accounting system")
	ErrInvalidSearchTerm     = errors.New("search term must be between 2 and 100 characters")
)

// CallbackReason is the error query value sent back to the settings page
func CallbackReason(err error) string {
	switch {
	case errors.Is(err, ErrProviderDenied):
		return "provider_denied"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrMissingCallbackParams):
		return "missing_params"
	default:
		return "exchange_failed"
	}
}
