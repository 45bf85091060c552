package web

import (
    "html/template"
    "net/http"
)

// Web serves the single-page dashboard over the workspace API. Presentation
// only; every edit goes through /api.
type Web struct {
    tpl *template.Template
}

func New() *Web {
    return &Web{tpl: template.Must(template.New("index").Parse(indexHTML))}
}

func (w *Web) RegisterRoutes(mux *http.ServeMux) {
    mux.HandleFunc("/", w.handleIndex)
}

func (w *Web) handleIndex(wr http.ResponseWriter, r *http.Request) {
    if r.URL.Path != "/" {
        http.NotFound(wr, r)
        return
    }
    wr.Header().Set("Content-Type", "text/html; charset=utf-8")
    _ = w.tpl.Execute(wr, nil)
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>pagedeck</title>
<style>
body { font-family: sans-serif; margin: 2em; }
.page { display: inline-block; margin: 6px; text-align: center; }
.page img { border: 1px solid #999; height: 160px; }
.controls { margin: 1em 0; }
</style>
</head>
<body>
<h1>pagedeck</h1>
<div class="controls">
  <input type="file" id="files" multiple accept="application/pdf">
  <button onclick="upload()">Upload</button>
  <button onclick="download('/api/merge')">Merge</button>
  <button onclick="download('/api/split')">Split</button>
  <button onclick="clearAll()">Clear</button>
</div>
<div id="insight"></div>
<div id="pages"></div>
<script>
async function refresh() {
  const ws = await (await fetch('/api/workspace')).json();
  const root = document.getElementById('pages');
  root.innerHTML = '';
  window.pageCount = (ws.pages || []).length;
  (ws.pages || []).forEach((p, i) => {
    const div = document.createElement('div');
    div.className = 'page';
    div.innerHTML = '<img src="/api/thumbnail/' + p.id + '?r=' + p.rotation + '"><br>' +
      '<button onclick="rotate(\'' + p.id + '\')">&#8635;</button>' +
      '<button onclick="del(\'' + p.id + '\')">&#10005;</button>' +
      '<button onclick="move(' + i + ',' + (i-1) + ')">&larr;</button>' +
      '<button onclick="move(' + i + ',' + (i+1) + ')">&rarr;</button>';
    root.appendChild(div);
  });
  document.getElementById('insight').textContent = ws.insight || '';
}
async function upload() {
  const fd = new FormData();
  for (const f of document.getElementById('files').files) fd.append('files', f);
  await fetch('/api/sources', {method: 'POST', body: fd});
  refresh();
}
async function rotate(id) {
  await fetch('/api/pages/rotate', {method: 'POST', body: JSON.stringify({page_id: id, delta: 90})});
  refresh();
}
async function del(id) {
  await fetch('/api/pages/delete', {method: 'POST', body: JSON.stringify({page_id: id})});
  refresh();
}
async function move(from, to) {
  if (to < 0 || to >= window.pageCount) return;
  await fetch('/api/reorder', {method: 'POST', body: JSON.stringify({from: from, to: to})});
  refresh();
}
async function clearAll() {
  await fetch('/api/clear', {method: 'POST'});
  refresh();
}
function download(url) { window.location = url; }
refresh();
</script>
</body>
</html>`
