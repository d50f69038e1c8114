package vanilla

import (
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-contactform/pkg/render"
)

var (
	copyPolicyOnce sync.Once
	copyPolicy     *bluemonday.Policy
)

// copySanitizer allows inline formatting and links in configurable copy.
func copySanitizer() *bluemonday.Policy {
	copyPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("b", "strong", "i", "em", "br", "span")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		copyPolicy = policy
	})
	return copyPolicy
}

func sanitizeCopy(in render.Copy) render.Copy {
	clean := func(s string) string {
		return strings.TrimSpace(copySanitizer().Sanitize(s))
	}
	out := in
	out.Title = clean(in.Title)
	out.Subtitle = clean(in.Subtitle)
	out.RequirementsHeading = clean(in.RequirementsHeading)
	out.SubmitLabel = clean(in.SubmitLabel)
	out.SuccessHeading = clean(in.SuccessHeading)
	out.SuccessBody = clean(in.SuccessBody)
	return out
}

type themeContext struct {
	Name         string `json:"name,omitempty"`
	Variant      string `json:"variant,omitempty"`
	CSSVarsStyle string `json:"cssVarsStyle,omitempty"`
}

func buildThemeContext(cfg *theme.RendererConfig) themeContext {
	if cfg == nil {
		return themeContext{}
	}
	return themeContext{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		CSSVarsStyle: cssVarsStyle(cfg.CSSVars),
	}
}

// cssVarsStyle renders custom properties as an inline style attribute value.
// Names are forced into the --name form and values lose characters that
// could break out of the declaration.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		name := strings.TrimSpace(strings.TrimLeft(key, "-"))
		value := strings.Map(func(r rune) rune {
			switch r {
			case ';', '{', '}', '<', '>', '"', '\'':
				return -1
			}
			return r
		}, strings.TrimSpace(vars[key]))
		if name == "" || value == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString("--")
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString(";")
	}
	return b.String()
}
