// Package params parses user-supplied parameter sources: --param key=value
// pairs, .env parameter files, and the JSON tool-inputs file that supplies
// the values for the single tool run performed before publishing.
package params
