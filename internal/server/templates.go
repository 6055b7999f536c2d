package server

import "html/template"

// listTemplate renders the post list with pagination navigation. The
// context keys (object_list, page_obj, search_url) are the ones the
// components publish.
var listTemplate = template.Must(template.New("list").Parse(`<!DOCTYPE html>
<html>
<head><title>Blog</title></head>
<body>
<h1>Posts</h1>
<ul class="posts">
{{- range .object_list }}
  <li>
    <h2>{{ .Title }}</h2>
    <p class="meta">{{ .Author }} &middot; {{ .Category }} &middot; {{ .Status }}</p>
    <p>{{ .Body }}</p>
  </li>
{{- end }}
</ul>
{{- with .page_obj }}
<nav class="pagination">
  <span>Page {{ .number }} of {{ .total_pages }} ({{ .total_count }} posts)</span>
  {{- with .page_urls }}
  {{- if .previous }}<a rel="prev" href="{{ .previous }}">previous</a>{{ end }}
  {{- if .next }}<a rel="next" href="{{ .next }}">next</a>{{ end }}
  {{- end }}
</nav>
{{- end }}
</body>
</html>
`))
