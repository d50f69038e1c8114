// Package template defines the template engine contract used by the HTML
// renderer. Implementations live in sub-packages (see template/pongo).
package template
