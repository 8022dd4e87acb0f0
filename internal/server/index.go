package server

import "net/http"

// indexHTML is a minimal browser shell for stored maps. It lists maps,
// renders the selected one through /api/maps/{id}/svg, and forwards
// search input as the q parameter.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Synapse</title>
<style>
  body { margin: 0; display: flex; height: 100vh; font-family: sans-serif; }
  #sidebar { width: 240px; border-right: 1px solid #ddd; padding: 12px; overflow-y: auto; }
  #sidebar h1 { font-size: 16px; margin: 0 0 12px; }
  #sidebar a { display: block; padding: 6px 4px; color: #333; text-decoration: none; }
  #sidebar a.active { background: #eee; border-radius: 4px; }
  #view { flex: 1; display: flex; flex-direction: column; }
  #toolbar { padding: 8px 12px; border-bottom: 1px solid #ddd; }
  #canvas { flex: 1; overflow: auto; }
  #canvas svg { width: 100%; height: 100%; }
</style>
</head>
<body>
<div id="sidebar"><h1>Synapse</h1><div id="maps"></div></div>
<div id="view">
  <div id="toolbar"><input id="search" type="search" placeholder="Search nodes..."></div>
  <div id="canvas"></div>
</div>
<script>
let current = null;
async function refresh() {
  const maps = await (await fetch('/api/maps')).json();
  const list = document.getElementById('maps');
  list.innerHTML = '';
  for (const m of maps) {
    const a = document.createElement('a');
    a.textContent = m.name;
    a.href = '#' + m.id;
    a.className = m.id === current ? 'active' : '';
    a.onclick = () => { current = m.id; render(); refresh(); return false; };
    list.appendChild(a);
  }
}
async function render() {
  if (!current) return;
  const q = document.getElementById('search').value;
  const canvas = document.getElementById('canvas');
  const params = new URLSearchParams({
    width: canvas.clientWidth, height: canvas.clientHeight, q: q,
  });
  const res = await fetch('/api/maps/' + current + '/svg?' + params);
  canvas.innerHTML = res.ok ? await res.text() : 'render failed';
}
document.getElementById('search').addEventListener('input', render);
window.addEventListener('resize', render);
refresh();
</script>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}
