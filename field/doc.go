// Package field maps header tags onto typed field objects. A Field knows
// how to parse its body, hold it in a structured form, and render it back
// out canonically. The package keeps a registry from canonical tag to
// constructor; tags nobody registered fall back to a Generic field that
// carries the body opaquely.
//
// Date and Resent-Date are registered to a Date field that parses the many
// shapes mail dates come in. The usual address-bearing tags (To, Cc, From,
// and friends) are registered to an AddressList field built on the addr
// package. Anything else may be registered by the caller with Register.
package field
