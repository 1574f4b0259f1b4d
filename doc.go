// Package mailtools provides a family of packages for pulling apart and
// putting back together the headers of Internet mail messages. It grew out
// of a long stretch of time spent maintaining mail archives that predate
// every modern mail RFC, so the code here tries very hard to accept the
// mail that actually exists rather than the mail the standards describe.
//
// The work is split across a handful of packages:
//
// * addr knows how to read and write the address lists found in fields
// like To, Cc, and From, including the comments, quoting, and angle
// brackets that come with them.
//
// * header models a whole header as an ordered collection of fields. It
// folds long lines, unfolds them again, normalizes the casing of field
// names, and copes with the mbox "From " lines that sneak into the top of
// messages pulled from spool files.
//
// * field turns individual header fields into typed values, with a
// registry so that a Date field hands back a time and a To field hands
// back addresses.
//
// * message ties a header to a body and knows how to read one from a
// stream, write one back out, and build a reply.
//
// * mailer hands a finished message to sendmail, an SMTP server, or an
// mbox file, whichever is on hand.
//
// * mailcap reads the mailcap files described by RFC 1524 and picks the
// command to handle a given media type.
//
// A guiding principle throughout: parsing followed by writing should give
// back what was read, byte for byte, unless you explicitly ask for the
// header to be reformatted. Mail that has survived thirty years of relays
// deserves to survive this library too.
package mailtools
