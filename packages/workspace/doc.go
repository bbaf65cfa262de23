// Package workspace owns filesystem concerns around a resolution pass:
// path existence checks and the output-directory layout for one run.
package workspace
