package server

// indexHTML is a minimal status page. It drives the same JSON API a headless
// client would use; everything interesting lives behind /api.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>vmhuntr</title>
<style>
body { font-family: monospace; margin: 2em; background: #111; color: #ddd; }
button { margin-right: 0.5em; }
#logs { margin-top: 1em; white-space: pre-wrap; }
.warning { color: #fc3; }
.error { color: #f55; }
.success { color: #5f5; font-weight: bold; }
</style>
</head>
<body>
<h1>vmhuntr</h1>
<p id="status">loading...</p>
<button onclick="post('start')">Start</button>
<button onclick="post('stop')">Stop</button>
<div id="logs"></div>
<script>
const logs = document.getElementById('logs');
const status = document.getElementById('status');
function post(op) { fetch('api/' + op, {method: 'POST'}); }
const es = new EventSource('api/stream');
es.onmessage = (m) => {
  const ev = JSON.parse(m.data);
  if (ev.type === 'status') {
    const s = ev.data;
    status.textContent = (s.is_running ? 'running' : 'idle') +
      ' | attempt ' + s.current_attempt + ' | ' + s.last_status;
  } else if (ev.type === 'log') {
    const line = document.createElement('div');
    line.className = ev.data.level;
    line.textContent = '[' + ev.data.timestamp + '] ' + ev.data.message;
    logs.prepend(line);
  }
};
</script>
</body>
</html>
`
