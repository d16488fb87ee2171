package pages

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, view View) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Templates().ExecuteTemplate(&buf, view.Page.Template, view))
	return buf.String()
}

func TestEveryPageRenders(t *testing.T) {
	site := Site{Brand: "Growtopia"}
	for _, page := range Pages {
		t.Run(page.Name, func(t *testing.T) {
			html := render(t, NewView(site, page))
			assert.Contains(t, html, "<title>Growtopia | "+page.Title+"</title>")
			assert.Contains(t, html, `href="/register"`)
			assert.Contains(t, html, "Making gardening an enjoyable and sustainable activity for everyone.")
		})
	}
}

func TestAnalyticsSnippetIsOptional(t *testing.T) {
	home, ok := Lookup("home")
	require.True(t, ok)

	without := render(t, NewView(Site{Brand: "Growtopia"}, home))
	assert.NotContains(t, without, "googletagmanager")

	with := render(t, NewView(Site{Brand: "Growtopia", AnalyticsID: "G-VCWKZ7L7B4"}, home))
	assert.Contains(t, with, "gtag/js?id=G-VCWKZ7L7B4")
}

func TestRegisterShowsNoticeAndEscapesInput(t *testing.T) {
	register, ok := Lookup("register")
	require.True(t, ok)

	view := NewView(Site{Brand: "Growtopia"}, register)
	view.Notice = &Notice{Kind: "warning", Text: "Please fill in your name and email."}
	view.Form = FormValues{Name: `<script>alert(1)</script>`, Message: "hi"}

	html := render(t, view)
	assert.Contains(t, html, `class="notice notice-warning"`)
	assert.Contains(t, html, "Please fill in your name and email.")
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestLookupUnknownPage(t *testing.T) {
	_, ok := Lookup("pricing")
	assert.False(t, ok)
}

func TestStaticServesStylesheet(t *testing.T) {
	f, err := Static().Open("site.css")
	require.NoError(t, err)
	defer f.Close()

	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Contains(t, string(body), ".main-container")
}
