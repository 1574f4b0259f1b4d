// Package message puts a header and a body together into a whole mail
// message. The body is held as lines, the way line-oriented mail tools
// expect to see it, and the header is a header.Header with everything
// that package provides.
//
// Parsing splits the input at the first blank line and is careful to
// preserve what it read, so a parsed message writes back out the way it
// came in. Reply building, recipient extraction, and body tidying are
// here too; actually sending a message is the mailer package's business.
package message
