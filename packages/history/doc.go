// Package history records completed resolution runs in a local SQLite
// database, so operators can see which suites were prepared and when. It
// is write-mostly: nothing in resolution ever reads it.
package history
