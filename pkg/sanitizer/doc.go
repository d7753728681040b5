// Package sanitizer normalizes free-text booking fields before validation.
//
// All functions are idempotent: applying them twice gives the same result as
// applying them once. They never fail; input that reduces to nothing comes
// back as an empty string so the required-field checks can reject it.
package sanitizer
