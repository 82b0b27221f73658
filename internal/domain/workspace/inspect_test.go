package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/htmldesk/internal/testutil"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Landing</title>
  <meta name="description" content=" A small page ">
</head>
<body>
  <h1>Welcome</h1>
  <h2>About</h2>
  <h3>Team</h3>
  <a href="/about.html">About</a>
  <a name="anchor">no href</a>
  <a href="https://example.com">Out</a>
  <script>alert("hi")</script>
  <p onclick="steal()">Click</p>
</body>
</html>`

func TestInspect(t *testing.T) {
	svc, _, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)
	path := testutil.WriteFile(t, ws, "index.html", samplePage)

	doc, err := svc.Inspect(context.Background(), ws, path)
	require.NoError(t, err)

	assert.Equal(t, "index.html", doc.Name)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, int64(len(samplePage)), doc.Size)
	assert.Contains(t, doc.MIME, "text/html")
	assert.Equal(t, "utf-8", doc.Charset)
	assert.Equal(t, "Landing", doc.Title)
	assert.Equal(t, "A small page", doc.Description)
	assert.Equal(t, 3, doc.Headings)
	assert.Equal(t, 2, doc.Links)
}

func TestInspectPlainText(t *testing.T) {
	svc, _, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)
	path := testutil.WriteFile(t, ws, "fragment.html", "just some words")

	doc, err := svc.Inspect(context.Background(), ws, path)
	require.NoError(t, err)
	assert.Contains(t, doc.MIME, "text/plain")
	assert.Empty(t, doc.Title)
	assert.Zero(t, doc.Headings)
}

func TestInspectRejectsBinary(t *testing.T) {
	svc, _, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)
	png := "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00"
	path := testutil.WriteFile(t, ws, "image.html", png)

	_, err := svc.Inspect(context.Background(), ws, path)
	assert.ErrorIs(t, err, ErrNotHTML)
}

func TestInspectGuarded(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Inspect(context.Background(), testutil.NewWorkspace(t), "../index.html")
	assert.ErrorIs(t, err, ErrPathTraversal)
}

func TestPreviewSanitizes(t *testing.T) {
	svc, _, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)
	path := testutil.WriteFile(t, ws, "index.html", samplePage)

	out, err := svc.Preview(context.Background(), ws, path)
	require.NoError(t, err)

	assert.Contains(t, out, "<h1>Welcome</h1>")
	assert.Contains(t, out, "Click")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert(")
	assert.NotContains(t, out, "onclick")
}

func TestReadTitle(t *testing.T) {
	svc, _, _ := newTestService(t)
	ws := testutil.NewWorkspace(t)

	assert.Equal(t, "Landing", svc.readTitle(testutil.WriteFile(t, ws, "a.html", samplePage)))
	assert.Empty(t, svc.readTitle(testutil.WriteFile(t, ws, "b.html", "<p>untitled</p>")))
	assert.Empty(t, svc.readTitle(ws+"/missing.html"))
}
