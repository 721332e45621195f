package types

// ErrorEnvelope is the failure wire shape: a single client-safe message.
// Successful responses carry the affected record directly, without a wrapper.
type ErrorEnvelope struct {
	Error string `json:"error"`
}
