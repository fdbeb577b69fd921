package site

// pageTemplate is the html/template every built page is rendered with.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}{{if .SiteName}} - {{.SiteName}}{{end}}</title>
  {{- if .Description}}
  <meta name="description" content="{{.Description}}">
  {{- end}}
  <link rel="stylesheet" href="{{.BasePath}}style.css">
</head>
<body>
  <nav class="sidebar">
    <a class="site-name" href="{{.BasePath}}index.html">{{.SiteName}}</a>
    {{.Nav}}
  </nav>
  <main class="content">
    {{- if .Description}}
    <div class="subtitle">{{.Description}}</div>
    {{- end}}
    {{.Content}}
  </main>
</body>
</html>
`

// stylesheet is written to style.css at the site root.
const stylesheet = `body { margin: 0; display: flex; font-family: system-ui, sans-serif; line-height: 1.6; }
.sidebar { width: 260px; padding: 1rem; border-right: 1px solid #e5e7eb; min-height: 100vh; }
.sidebar ul { list-style: none; padding-left: 1rem; }
.sidebar .section > ul { display: none; }
.sidebar .section.open > ul { display: block; }
.sidebar a.active { font-weight: 600; }
.site-name { font-size: 1.2rem; font-weight: 700; text-decoration: none; }
.content { flex: 1; max-width: 860px; padding: 2rem; }
.subtitle { color: #6b7280; margin-bottom: 1rem; }
.highlight pre { background: #f6f8fa; padding: 1rem; overflow-x: auto; border-radius: 6px; }
.action-links { display: flex; gap: 1rem; margin: 0.25rem 0 1rem; }
.action-links .link { font-size: 0.9rem; text-decoration: none; }
iframe.docaug-embed { width: 100%; border: 0; min-height: 200px; }
`
