// Package sanitizer normalizes untrusted string input before validation
// and storage. Sanitization is lossy by design; validation still decides
// whether the cleaned value is acceptable.
package sanitizer
