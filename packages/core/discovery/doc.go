// Package discovery extracts runnable tests from loaded test modules,
// pairing each test callable with its validation callable by name.
package discovery
