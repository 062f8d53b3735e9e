// Package testutil provides shared fixtures for package tests: an in-memory
// store with two regular users and an admin, plus helpers that seed agents,
// conversations, contexts and lists without repeating the same setup in
// every test file.
package testutil
