// Package validator provides rule-based validation for request input.
//
// Rules are plain closures composed with Apply, which collects every
// failure into a ValidationErrors value instead of stopping at the first
// one. Transport layers convert ValidationErrors into field-keyed error
// details for API responses.
package validator
