package dto

import "encoding/json"

// RPCRequest is the uniform request envelope accepted by POST /api.
// Params stays raw: the dispatcher never inspects it, each method decodes
// its own parameters.
type RPCRequest struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	ID     any             `json:"id"`
}

// RPCResult is the success envelope. ID echoes the request's id verbatim,
// including null when the caller sent none.
type RPCResult struct {
	Result any `json:"result"`
	ID     any `json:"id"`
}

// RPCError is the failure envelope.
type RPCError struct {
	Error string `json:"error"`
	ID    any    `json:"id"`
}
