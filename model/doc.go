// Package model defines the provider-agnostic abstraction for dispatching a
// conversation turn to a chat-completion vendor.
//
// Core goals:
//   - Keep the request shape (core.Transcript) transport independent
//   - Isolate each vendor's role vocabulary and system-prompt mechanism
//     behind one Adapter implementation
//   - Return provider failures as data (*core.VendorError) so the
//     orchestrator can surface them instead of crashing the request
//   - Facilitate lightweight mocking for tests (MockAdapter)
//
// Providers (OpenAI, Anthropic, Google) implement the Adapter interface in
// sub-packages so higher layers remain decoupled from vendor SDKs.
package model
