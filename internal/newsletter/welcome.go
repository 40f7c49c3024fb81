package newsletter

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
)

//go:embed templates/welcome.html
var templateFS embed.FS

var welcomeTemplate = template.Must(template.ParseFS(templateFS, "templates/welcome.html"))

var benefits = []string{
	"Weekly mental wellness tips and strategies",
	"New articles and curated resources",
	"Community updates and stories",
	"Exclusive content and early access",
}

type welcomeData struct {
	Brand          Brand
	Color          template.CSS
	SiteURL        string
	UnsubscribeURL string
	Benefits       []string
}

func welcomeSubject(b Brand) string {
	return fmt.Sprintf("Welcome to %s Newsletter!", b.Name)
}

// renderWelcome builds the welcome email body. unsubscribeToken may be empty.
func renderWelcome(b Brand, unsubscribeToken string) (string, error) {
	data := welcomeData{
		Brand:    b,
		Color:    template.CSS(b.Color),
		SiteURL:  b.SiteURL(),
		Benefits: benefits,
	}
	if unsubscribeToken != "" {
		data.UnsubscribeURL = b.SiteURL() + "/api/newsletter/unsubscribe?token=" + url.QueryEscape(unsubscribeToken)
	}

	var buf bytes.Buffer
	if err := welcomeTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render welcome email: %w", err)
	}
	return buf.String(), nil
}
