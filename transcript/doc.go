// Package transcript assembles the vendor-neutral conversation state handed
// to vendor adapters: the ordered message history plus the bound agent's
// profile. The builder is read-only and idempotent; calling it twice with no
// intervening mutation yields identical transcripts.
package transcript
