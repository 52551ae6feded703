package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/puntingio/racepost/internal/run"
)

// RenderedMessage is an email body ready for delivery.
type RenderedMessage struct {
	Subject string
	Text    string
	HTML    string
}

// HTMLEmailRenderer renders run digests as HTML emails with a plain text
// fallback.
type HTMLEmailRenderer struct {
	tmpl *template.Template
}

// NewHTMLEmailRenderer creates a renderer with the default digest template.
func NewHTMLEmailRenderer() *HTMLEmailRenderer {
	t := template.Must(template.New("digest").Parse(digestHTMLTemplate))
	return &HTMLEmailRenderer{tmpl: t}
}

// Render produces the digest email for one run.
func (r *HTMLEmailRenderer) Render(rep *run.Report) (*RenderedMessage, error) {
	subject := fmt.Sprintf("racepost digest %s: %d published", rep.Date, len(rep.Published))

	var htmlBuf bytes.Buffer
	if err := r.tmpl.Execute(&htmlBuf, rep); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}

	return &RenderedMessage{
		Subject: subject,
		Text:    renderPlainText(rep),
		HTML:    htmlBuf.String(),
	}, nil
}

// renderPlainText produces a readable plain text version for email clients
// that don't support HTML.
func renderPlainText(rep *run.Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Run digest %s\n", rep.Date))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	sb.WriteString(fmt.Sprintf("Results fetched:   %d\n", rep.Fetched))
	sb.WriteString(fmt.Sprintf("Already posted:    %d\n", rep.AlreadyPosted))
	sb.WriteString(fmt.Sprintf("Published:         %d\n", len(rep.Published)))
	sb.WriteString(fmt.Sprintf("Duplicates marked: %d\n", rep.Duplicates))
	sb.WriteString(fmt.Sprintf("Errors:            %d\n\n", rep.Errors))

	if len(rep.Published) > 0 {
		sb.WriteString("PUBLISHED\n")
		sb.WriteString(strings.Repeat("-", 20) + "\n")
		for _, p := range rep.Published {
			sb.WriteString(fmt.Sprintf("• %s %s (race %s, post %s)\n", p.Off, p.Course, p.RaceID, p.PostID))
		}
		sb.WriteString("\n")
	}

	if rep.Capped {
		sb.WriteString("Run cap reached; remaining races roll over to the next run.\n")
	}
	if rep.RateLimitAbort {
		sb.WriteString("Run aborted on a rate limit; remaining races roll over to the next run.\n")
	}

	return sb.String()
}
