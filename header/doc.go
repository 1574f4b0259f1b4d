// Package header models a mail header as an ordered collection of fields.
//
// The collection keeps every physical line it is given, in order, together
// with an index from canonical field name to the lines carrying that name.
// Duplicate fields are normal and preserved. Reading a field body always
// unfolds it; writing one folds it only when the header was built with
// WithModify(true), so by default a parsed header writes back out exactly
// as it came in.
//
// The package also provides the three operations everything else here is
// built from: Fold wraps one long header line the way mail software has
// folded lines since RFC 822, Unfold puts a folded line back together, and
// CanonicalTag normalizes the casing of a field name, so that x-mailer
// becomes X-Mailer and mime-version becomes MIME-Version.
//
// Headers read from mbox spool files often begin with an envelope line
// like "From sender@example.com Sat Jan 3 01:05:34 1996". What to do with
// such lines is a policy choice made at construction time with
// WithMailFrom: keep them, drop them, rewrite them into Mail-From fields,
// or report them as errors.
package header
