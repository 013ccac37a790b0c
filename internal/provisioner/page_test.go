package provisioner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRenderer_Defaults(t *testing.T) {
	r, err := NewPageRenderer()
	require.NoError(t, err)

	html, err := r.Render(Page{MeetingURI: testMeetingURI})
	require.NoError(t, err)

	assert.Contains(t, html, `<h1 style="font-family: inter;">Joining Google Meet...</h1>`)
	assert.Contains(t, html, `width="600" height="400"`)
	assert.Equal(t, 2, strings.Count(html, testMeetingURI))
}

func TestPageRenderer_Overrides(t *testing.T) {
	r, err := NewPageRenderer()
	require.NoError(t, err)

	html, err := r.Render(Page{MeetingURI: testMeetingURI, Title: "Standup", Width: 800, Height: 450})
	require.NoError(t, err)

	assert.Contains(t, html, `<title>Standup</title>`)
	assert.Contains(t, html, `width="800" height="450"`)
}

func TestPageRenderer_EscapesURI(t *testing.T) {
	r, err := NewPageRenderer()
	require.NoError(t, err)

	html, err := r.Render(Page{MeetingURI: `https://meet.example/x" onload="alert(1)`})
	require.NoError(t, err)

	assert.NotContains(t, html, `" onload="`)
}

func TestErrorPage(t *testing.T) {
	assert.Equal(t, "<html><body><h1>Error creating Google Meet space.</h1></body></html>", ErrorPage)
}
