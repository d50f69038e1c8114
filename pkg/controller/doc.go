// Package controller implements the contact form session: field edits and
// blur validation, the live submittable predicate, and the submit cycle
// (idle -> succeeded -> idle after a delay). The delayed reset is a
// cancellable timer owned by each Controller; scheduling a new one always
// cancels the previous one, and a generation counter makes callbacks that lost
// the race with Stop harmless.
package controller
