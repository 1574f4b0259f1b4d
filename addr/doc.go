// Package addr parses and formats the mail address lists found in header
// fields like To, From, and Cc.
//
// The grammar here is deliberately old school. Rather than chase the full
// RFC 5322 address specification, this package implements the permissive
// reading that mail software has used since the RFC 822 days: an address
// is a phrase, an address specification, and a comment, and the parser
// does its best to sort the pieces of whatever it is handed into those
// three buckets. That means it happily reads address lists that stricter
// parsers reject, which is exactly what you want when the input is a mail
// archive and not a conformance suite.
//
// Parsing a field body looks like this:
//
//	list, err := addr.ParseAddressList("\"Mr. Foo\" <foo@bar.com>, Peter Orbaek <poe@daimi.aau.dk>")
//
// Unbalanced angle brackets are reported through *UnmatchedBracketsError,
// but the parsed list is still returned alongside the error, so callers
// that want to be lenient can check for that type with errors.As and keep
// the result.
package addr
