// Package model defines the typed contact form state shared by the
// controller, the validation rules and every renderer. Field identifiers form
// a closed set (name, email, message); wire names are resolved once through
// ParseField so downstream code never switches on raw strings. Snapshot is
// the read model renderers consume: current values, the per-field error map,
// the submission status, the live submittable predicate and the requirements
// checklist.
package model
