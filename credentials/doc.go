// Package credentials resolves provider API keys. Lookup order is the
// process environment first, then a mounted secret-file directory (the
// systemd credentials convention). A credential that resolves nowhere is an
// irrecoverable failure; adapters never retry it.
package credentials
