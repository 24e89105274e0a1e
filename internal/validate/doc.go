// Package validate checks configuration documents against a schema template.
//
// Validation never stops at the first problem. A Validator runs an ordered
// pipeline of rules over the whole document and collects every error and
// warning, so a single run reports everything that needs fixing. Only errors
// make a document invalid; warnings fail it only in strict mode.
package validate
