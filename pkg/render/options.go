package render

// RenderOptions describe per-request data renderers use to customise their
// output without touching the controller.
type RenderOptions struct {
	// Action is the URL the HTML form posts to. Defaults to the current page.
	Action string
	// Locale selects the built-in copy catalog ("es" or "en"). Ignored when
	// Copy is set.
	Locale string
	// Copy overrides the texts shown around the form.
	Copy *Copy
	// Translator resolves copy keys before the built-in catalog is used.
	Translator Translator
	// Hidden carries extra inputs such as the session or CSRF token.
	Hidden []HiddenField
	// FormErrors are messages that do not belong to a single field, for
	// example a failed delivery.
	FormErrors []string
	// Fragment asks HTML renderers for the form markup only, without the
	// surrounding document.
	Fragment bool
}

// ResolveCopy returns the copy renderers should use for these options.
func (o RenderOptions) ResolveCopy() Copy {
	if o.Copy != nil {
		return *o.Copy
	}
	return LocalizedCopy(o.Locale, o.Translator)
}
