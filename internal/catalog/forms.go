package catalog

import (
	"embed"

	"github.com/JonMunkholm/uikit/internal/core"
)

//go:embed forms/*.html
var formFiles embed.FS

func init() {
	registerForm("contact", "Contact", "contactForm")
	registerForm("signup", "Sign up", "signupForm")
}

func registerForm(key, label, formID string) {
	markup, err := formFiles.ReadFile("forms/" + key + ".html")
	if err != nil {
		panic("catalog: missing form markup: " + key)
	}
	core.RegisterForm(core.FormDefinition{
		Key:    key,
		Label:  label,
		FormID: formID,
		Markup: string(markup),
	})
}
