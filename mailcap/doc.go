// Package mailcap reads mailcap files, the RFC 1524 registry that maps
// content types to the commands that view, compose, and print them.
//
// A Registry is loaded from the usual places, $MAILCAPS or the
// conventional file list, and looked up by content type. Exact
// type/subtype entries win over wildcard ones, and entries from earlier
// files shadow later ones, so a user's own ~/.mailcap beats the system
// file. Command templates carry the % escapes of the RFC, expanded with
// Expand.
package mailcap
