package tui

import "github.com/charmbracelet/lipgloss"

// Theme captures optional prefixes the renderer applies when printing
// messages.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// DefaultTheme mirrors the checklist marks of the HTML form.
var DefaultTheme = Theme{ErrorPrefix: "✗ "}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithStyles replaces the lipgloss styles used for banners and marks.
func WithStyles(styles Styles) Option {
	return func(r *Renderer) {
		r.styles = styles
	}
}

// WithMaxAttempts limits how often a single field is re-prompted after a
// validation error. Zero means no limit.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.maxAttempts = n
		}
	}
}

// Styles groups the lipgloss styles of the terminal output.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Met      lipgloss.Style
	Success  lipgloss.Style
	Button   lipgloss.Style
	Disabled lipgloss.Style
}

// DefaultStyles returns the blue header and green success palette of the form.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#2563EB")).
			Padding(0, 1),
		Subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("#93C5FD")),
		Label:    lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		Met:      lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A")),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#15803D")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ADE80")).
			Padding(0, 1),
		Button: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#2563EB")).
			Padding(0, 1),
		Disabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#9CA3AF")).
			Padding(0, 1),
	}
}
