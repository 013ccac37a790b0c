package provisioner

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/Masterminds/sprig/v3"
)

// ErrorPage is served, verbatim, for every failed code-flow request.
const ErrorPage = "<html><body><h1>Error creating Google Meet space.</h1></body></html>"

const meetingPageTemplate = `<html>
<head>
    <meta http-equiv="refresh" content="0; url={{ .MeetingURI }}" />
    <title>{{ .Title | default "Google Meet" }}</title>
</head>
<body>
    <div style="text-align: center;">
        <h1 style="font-family: inter;">{{ .Heading | default "Joining Google Meet..." }}</h1>
        <iframe src="{{ .MeetingURI }}" width="{{ .Width | default 600 }}" height="{{ .Height | default 400 }}" allow="camera; microphone" style="border: 0;"></iframe>
    </div>
</body>
</html>
`

// Page holds the values rendered into the meeting page. Zero fields fall back to defaults.
type Page struct {
	MeetingURI string
	Title      string
	Heading    string
	Width      int
	Height     int
}

// PageRenderer renders the auto-redirecting meeting page.
type PageRenderer struct {
	tmpl *template.Template
}

// NewPageRenderer parses the meeting page template.
func NewPageRenderer() (*PageRenderer, error) {
	tmpl, err := template.New("meeting").Funcs(sprig.FuncMap()).Parse(meetingPageTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse meeting page template: %w", err)
	}
	return &PageRenderer{tmpl: tmpl}, nil
}

// Render returns the page for meetingURI. The URI is escaped for each context it appears in.
func (r *PageRenderer) Render(page Page) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("failed to render meeting page: %w", err)
	}
	return buf.String(), nil
}
