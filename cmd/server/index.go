package main

// indexHTML is the upload page served at /. It posts the form to /upload,
// follows progress over the WebSocket and then renders the analysis from
// /jobs/:id. Fields missing from the analysis simply stay hidden.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Lecture Insights</title>
<style>
  body { font-family: sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; }
  fieldset { border: 1px solid #ccc; padding: 1rem; }
  #status { margin: 1rem 0; color: #555; }
  #error { color: #b00020; }
  .card { border: 1px solid #ddd; border-radius: 6px; padding: 1rem; margin: 1rem 0; }
  .tag { display: inline-block; background: #eef; border-radius: 4px; padding: 2px 8px; margin: 2px; }
  details pre { white-space: pre-wrap; }
</style>
</head>
<body>
<h1>Lecture Insights</h1>
<p>Upload a lecture video. It will be transcribed and summarized with keywords and category tags.</p>
<form id="form">
  <fieldset>
    <label>Name: <input type="text" name="name" placeholder="untitled"></label><br><br>
    <label>File: <input type="file" name="file" accept=".mp4,.mov,.avi,.mpeg,.webm,.m4a,.wav,.mp3,.ogg,.flac,.aac,.wma" required></label><br><br>
    <button type="submit">Upload</button>
  </fieldset>
</form>
<div id="status"></div>
<div id="error"></div>
<div id="results" hidden>
  <div class="card"><h3>Categories</h3><div id="categories"></div></div>
  <div class="card"><h3>Summary</h3><p id="summary"></p></div>
  <div class="card"><h3>Keywords</h3><div id="keywords"></div></div>
  <details><summary>Full transcript</summary><pre id="transcript"></pre></details>
</div>
<script>
const form = document.getElementById('form');
const stageNames = {
  extracting: 'Step 1/3: Extracting audio from video...',
  transcribing: 'Step 2/3: Transcribing audio...',
  analyzing: 'Step 3/3: Analyzing with AI (summary, keywords, categories)...',
  saving: 'Saving results...'
};

form.addEventListener('submit', async (e) => {
  e.preventDefault();
  document.getElementById('error').textContent = '';
  document.getElementById('results').hidden = true;
  setStatus('Uploading...');

  const resp = await fetch('/upload', { method: 'POST', body: new FormData(form) });
  const body = await resp.json();
  if (!resp.ok) { showError(body.error); return; }

  const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') +
    location.host + '/ws/progress/' + body.job_id);
  ws.onmessage = (msg) => {
    const ev = JSON.parse(msg.data);
    if (ev.status === 'FAILED') { showError(ev.error); ws.close(); return; }
    if (ev.status === 'COMPLETED') { ws.close(); render(body.job_id); return; }
    setStatus(stageNames[ev.stage] || 'Queued...');
  };
});

async function render(jobID) {
  const job = await (await fetch('/jobs/' + jobID)).json();
  setStatus('Done.');
  document.getElementById('summary').textContent = job.summary || '(no summary)';
  fillTags('categories', job.categories);
  fillTags('keywords', job.keywords);
  document.getElementById('transcript').textContent = job.transcript || '';
  document.getElementById('results').hidden = false;
}

function fillTags(id, values) {
  const el = document.getElementById(id);
  el.innerHTML = '';
  (values || []).forEach(v => {
    const span = document.createElement('span');
    span.className = 'tag';
    span.textContent = v;
    el.appendChild(span);
  });
  if (!values || values.length === 0) { el.textContent = '(none)'; }
}

function setStatus(text) { document.getElementById('status').textContent = text; }
function showError(text) {
  setStatus('');
  document.getElementById('error').textContent = 'Error: ' + (text || 'processing failed');
}
</script>
</body>
</html>`
