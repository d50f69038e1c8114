// Package validation holds the contact form rules. Each field has exactly one
// pure rule returning a Result; the inline error path (controller), the
// submit gate (Submittable) and the requirements checklist all call the same
// functions so they cannot disagree.
package validation
