package render

import (
	"strings"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// Translator resolves a copy key for a locale.
type Translator interface {
	Translate(locale, key string) (string, error)
}

// TranslatorFunc adapts a function to the Translator interface.
type TranslatorFunc func(locale, key string) (string, error)

// Translate implements Translator.
func (f TranslatorFunc) Translate(locale, key string) (string, error) {
	return f(locale, key)
}

// FieldCopy holds the texts of one input.
type FieldCopy struct {
	Label       string `yaml:"label" json:"label"`
	Placeholder string `yaml:"placeholder" json:"placeholder"`
	Check       string `yaml:"check" json:"check"`
}

// Copy is every user facing text around the form.
type Copy struct {
	Title               string                    `yaml:"title" json:"title"`
	Subtitle            string                    `yaml:"subtitle" json:"subtitle"`
	RequirementsHeading string                    `yaml:"requirementsHeading" json:"requirementsHeading"`
	SubmitLabel         string                    `yaml:"submitLabel" json:"submitLabel"`
	SuccessHeading      string                    `yaml:"successHeading" json:"successHeading"`
	SuccessBody         string                    `yaml:"successBody" json:"successBody"`
	Fields              map[model.Field]FieldCopy `yaml:"fields" json:"fields"`
	// Messages maps validation messages to their localized text.
	Messages map[string]string `yaml:"messages" json:"messages"`
}

// Field returns the copy for field.
func (c Copy) Field(field model.Field) FieldCopy {
	return c.Fields[field]
}

// Message localizes a validation or form-level message. Unknown messages are
// returned unchanged.
func (c Copy) Message(msg string) string {
	if localized, ok := c.Messages[msg]; ok && localized != "" {
		return localized
	}
	return msg
}

var catalogs = map[string]Copy{
	"es": {
		Title:               "Contáctame",
		Subtitle:            "¿Tienes un proyecto? ¡Escríbeme!",
		RequirementsHeading: "Requisitos:",
		SubmitLabel:         "Enviar Mensaje",
		SuccessHeading:      "¡Gracias por tu mensaje! 🎉",
		SuccessBody:         "Te responderé lo más pronto posible",
		Fields: map[model.Field]FieldCopy{
			model.FieldName:    {Label: "Nombre", Placeholder: "Ej: Carlos Pérez", Check: "Nombre: mínimo 3 caracteres"},
			model.FieldEmail:   {Label: "Email", Placeholder: "Ej: carlos@email.com", Check: "Email: debe incluir @ y ."},
			model.FieldMessage: {Label: "Mensaje", Placeholder: "Escribe tu mensaje aquí...", Check: "Mensaje: mínimo 10 caracteres"},
		},
		Messages: map[string]string{
			validation.MsgNameRequired:    "El nombre es obligatorio",
			validation.MsgNameTooShort:    "Mínimo 3 caracteres",
			validation.MsgEmailRequired:   "El email es obligatorio",
			validation.MsgEmailInvalid:    "Email inválido (debe incluir @ y .)",
			validation.MsgMessageRequired: "El mensaje es obligatorio",
			validation.MsgMessageTooShort: "Mínimo 10 caracteres",
			MsgDeliveryFailed:             "No se pudo enviar el mensaje, inténtalo de nuevo",
			MsgNotSubmittable:             "Revisa los campos marcados",
		},
	},
	"en": {
		Title:               "Contact me",
		Subtitle:            "Got a project? Drop me a line!",
		RequirementsHeading: "Requirements:",
		SubmitLabel:         "Send message",
		SuccessHeading:      "Thanks for your message! 🎉",
		SuccessBody:         "I will get back to you as soon as possible",
		Fields: map[model.Field]FieldCopy{
			model.FieldName:    {Label: "Name", Placeholder: "e.g. Carlos Pérez", Check: "Name: at least 3 characters"},
			model.FieldEmail:   {Label: "Email", Placeholder: "e.g. carlos@email.com", Check: "Email: must include @ and ."},
			model.FieldMessage: {Label: "Message", Placeholder: "Write your message here...", Check: "Message: at least 10 characters"},
		},
		Messages: map[string]string{
			MsgDeliveryFailed: "The message could not be delivered, please try again",
			MsgNotSubmittable: "Please fix the highlighted fields",
		},
	},
}

// DefaultLocale is used when no locale, or an unknown one, is requested.
const DefaultLocale = "es"

// Locales returns the built-in catalog identifiers.
func Locales() []string {
	return []string{"en", "es"}
}

// DefaultCopy returns a deep copy of the built-in catalog for locale.
func DefaultCopy(locale string) Copy {
	base, ok := catalogs[normalizeLocale(locale)]
	if !ok {
		base = catalogs[DefaultLocale]
	}
	return cloneCopy(base)
}

// LocalizedCopy starts from DefaultCopy and lets t override individual keys
// ("title", "fields.name.label", "messages.<message>", ...). Keys t cannot
// resolve keep the catalog text.
func LocalizedCopy(locale string, t Translator) Copy {
	out := DefaultCopy(locale)
	if t == nil {
		return out
	}
	locale = normalizeLocale(locale)

	out.Title = translate(locale, "title", out.Title, t)
	out.Subtitle = translate(locale, "subtitle", out.Subtitle, t)
	out.RequirementsHeading = translate(locale, "requirementsHeading", out.RequirementsHeading, t)
	out.SubmitLabel = translate(locale, "submitLabel", out.SubmitLabel, t)
	out.SuccessHeading = translate(locale, "successHeading", out.SuccessHeading, t)
	out.SuccessBody = translate(locale, "successBody", out.SuccessBody, t)

	for _, field := range model.Fields() {
		fc := out.Fields[field]
		prefix := "fields." + field.String() + "."
		fc.Label = translate(locale, prefix+"label", fc.Label, t)
		fc.Placeholder = translate(locale, prefix+"placeholder", fc.Placeholder, t)
		fc.Check = translate(locale, prefix+"check", fc.Check, t)
		out.Fields[field] = fc
	}
	for _, msg := range knownMessages {
		out.Messages[msg] = translate(locale, "messages."+msg, out.Message(msg), t)
	}
	return out
}

var knownMessages = []string{
	validation.MsgNameRequired,
	validation.MsgNameTooShort,
	validation.MsgEmailRequired,
	validation.MsgEmailInvalid,
	validation.MsgMessageRequired,
	validation.MsgMessageTooShort,
	MsgDeliveryFailed,
	MsgNotSubmittable,
}

// MergeCopy overlays the non-empty values of override onto base.
func MergeCopy(base, override Copy) Copy {
	out := cloneCopy(base)
	pick := func(dst *string, src string) {
		if strings.TrimSpace(src) != "" {
			*dst = src
		}
	}
	pick(&out.Title, override.Title)
	pick(&out.Subtitle, override.Subtitle)
	pick(&out.RequirementsHeading, override.RequirementsHeading)
	pick(&out.SubmitLabel, override.SubmitLabel)
	pick(&out.SuccessHeading, override.SuccessHeading)
	pick(&out.SuccessBody, override.SuccessBody)
	for field, fc := range override.Fields {
		current := out.Fields[field]
		pick(&current.Label, fc.Label)
		pick(&current.Placeholder, fc.Placeholder)
		pick(&current.Check, fc.Check)
		out.Fields[field] = current
	}
	for msg, localized := range override.Messages {
		if strings.TrimSpace(localized) != "" {
			out.Messages[msg] = localized
		}
	}
	return out
}

func translate(locale, key, fallback string, t Translator) string {
	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return fallback
}

func normalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		locale = locale[:idx]
	}
	if locale == "" {
		return DefaultLocale
	}
	return locale
}

func cloneCopy(in Copy) Copy {
	out := in
	out.Fields = make(map[model.Field]FieldCopy, len(in.Fields))
	for field, fc := range in.Fields {
		out.Fields[field] = fc
	}
	out.Messages = make(map[string]string, len(in.Messages))
	for msg, localized := range in.Messages {
		out.Messages[msg] = localized
	}
	return out
}
