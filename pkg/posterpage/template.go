package posterpage

const pageTemplate = `<!DOCTYPE html>
<html lang="en" data-theme="{{.Theme}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Poster</title>
<style>
:root {
  --bg: #f4f1ea;
  --card: #ffffff;
  --fg: #1f2328;
  --muted: #59636e;
  --accent: #0969da;
  --border: #d1d9e0;
  --code-bg: #f6f8fa;
}
[data-theme="dark"] {
  --bg: #0d1117;
  --card: #161b22;
  --fg: #e6edf3;
  --muted: #9198a1;
  --accent: #4493f8;
  --border: #3d444d;
  --code-bg: #272822;
}
* { box-sizing: border-box; }
html, body { margin: 0; padding: 0; background: var(--bg); }
body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", "Noto Sans", "Noto Sans CJK JP", Helvetica, Arial, sans-serif;
  color: var(--fg);
  padding: 48px 0;
}
.{{.MarkerCSS}} {
  width: 960px;
  margin: 0 auto;
  padding: 56px 64px;
  background: var(--card);
  border: 1px solid var(--border);
  border-radius: 16px;
  font-size: 20px;
  line-height: 1.65;
  overflow-wrap: anywhere;
}
.{{.MarkerCSS}} > :first-child { margin-top: 0; }
.{{.MarkerCSS}} > :last-child { margin-bottom: 0; }
.{{.MarkerCSS}} h1, .{{.MarkerCSS}} h2 { border-bottom: 1px solid var(--border); padding-bottom: .3em; }
.{{.MarkerCSS}} h1 { font-size: 2.2em; }
.{{.MarkerCSS}} a { color: var(--accent); text-decoration: none; }
.{{.MarkerCSS}} img { max-width: 100%; height: auto; border-radius: 8px; }
.{{.MarkerCSS}} blockquote { margin: 0; padding: 0 1em; color: var(--muted); border-left: 4px solid var(--border); }
.{{.MarkerCSS}} table { border-collapse: collapse; width: 100%; }
.{{.MarkerCSS}} th, .{{.MarkerCSS}} td { border: 1px solid var(--border); padding: 6px 13px; }
.{{.MarkerCSS}} code { font-family: ui-monospace, SFMono-Regular, Menlo, Consolas, monospace; font-size: .85em; background: var(--code-bg); padding: .2em .4em; border-radius: 6px; }
.{{.MarkerCSS}} pre { background: var(--code-bg); padding: 16px; border-radius: 8px; overflow: hidden; white-space: pre-wrap; }
.{{.MarkerCSS}} pre code { padding: 0; background: none; }
.{{.MarkerCSS}} ul.contains-task-list { list-style: none; padding-left: 1em; }
{{.CodeCSS}}
</style>
</head>
<body>
{{- if .HasContent}}
<div class="{{.MarkerCSS}}">
{{.Content}}
</div>
{{- end}}
</body>
</html>
`
