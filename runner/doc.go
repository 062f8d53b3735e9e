// Package runner is the conversation orchestrator. It composes the access
// resolver, the transcript builder and the vendor adapter registry to answer
// "produce the next agent message for conversation C on behalf of user U",
// and appends human turns after the same authorization.
//
// Vendor calls are blocking; the request that triggers ProduceAgentTurn is
// suspended until the provider responds or errors. On a vendor failure no
// message is appended and the failure detail is returned for display.
package runner
