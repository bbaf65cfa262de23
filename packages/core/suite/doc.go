// Package suite resolves a suite descriptor into a full execution plan:
// merged configuration stores, loaded code artifacts, and the discovered
// test list. It never executes a test itself.
package suite
