package app

// indexHTML is the whole UI. One self-contained page keeps deployment a
// single binary with no asset directory to rsync to the Pi.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Gesture Jukebox</title>
<style>
  body { font-family: monospace; background: #111; color: #ddd; margin: 2em; }
  h1 { color: #6cf; }
  h2 { color: #9d9; margin-top: 1.5em; }
  #gesture { font-size: 3em; color: #fc6; min-height: 1.2em; }
  #bars div { margin: 2px 0; }
  .bar { display: inline-block; background: #38f; height: 12px; vertical-align: middle; }
  table { border-collapse: collapse; }
  td, th { padding: 2px 10px; border-bottom: 1px solid #333; text-align: left; }
  a, button { color: #6cf; background: none; border: 1px solid #6cf; cursor: pointer; }
  #log { color: #888; max-height: 12em; overflow-y: auto; }
</style>
</head>
<body>
<h1>Gesture Jukebox</h1>

<div id="gesture">&mdash;</div>
<div id="state"></div>

<h2>Distances</h2>
<div id="bars">
  <div>L <span class="bar" id="bar0"></span> <span id="mm0"></span></div>
  <div>R <span class="bar" id="bar1"></span> <span id="mm1"></span></div>
  <div>T <span class="bar" id="bar2"></span> <span id="mm2"></span></div>
</div>

<h2>Tracks</h2>
<form id="upload">
  <input type="file" name="track" accept=".wav,.mp3">
  <button type="submit">Upload</button>
</form>
<table id="tracks"><thead><tr><th>Name</th><th>Size</th><th></th></tr></thead><tbody></tbody></table>

<h2>History</h2>
<div id="log"></div>

<script>
function refreshTracks() {
  fetch('/api/tracks').then(function(r){ return r.json(); }).then(function(tracks){
    var tb = document.querySelector('#tracks tbody');
    tb.innerHTML = '';
    tracks.forEach(function(t){
      var tr = document.createElement('tr');
      tr.innerHTML = '<td><a href="/api/tracks/download?name=' + encodeURIComponent(t.name) + '">' +
        t.name + '</a></td><td>' + (t.size/1048576).toFixed(1) + ' MB</td>' +
        '<td><button>delete</button></td>';
      tr.querySelector('button').onclick = function(){
        fetch('/api/tracks?name=' + encodeURIComponent(t.name), {method: 'DELETE'}).then(refreshTracks);
      };
      tb.appendChild(tr);
    });
  });
}

function refreshHistory() {
  fetch('/api/events').then(function(r){ return r.ok ? r.json() : []; }).then(function(entries){
    var el = document.getElementById('log');
    el.innerHTML = (entries || []).map(function(e){
      return e.kind === 'gesture'
        ? e.time_ms + 'ms ' + e.gesture + ' (' + e.duration_ms + 'ms)'
        : e.time_ms + 'ms rejected: ' + e.reason;
    }).join('<br>');
  });
}

document.getElementById('upload').onsubmit = function(ev){
  ev.preventDefault();
  var data = new FormData(ev.target);
  fetch('/api/tracks', {method: 'POST', body: data}).then(function(){
    ev.target.reset();
    refreshTracks();
  });
};

var ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
ws.onmessage = function(ev){
  var msg = JSON.parse(ev.data);
  if (msg.kind === 'gesture') {
    document.getElementById('gesture').textContent = msg.data.gesture.toUpperCase();
    refreshHistory();
  } else if (msg.kind === 'distances') {
    document.getElementById('state').textContent = msg.data.state;
    for (var i = 0; i < 3; i++) {
      var mm = msg.data.filtered_mm[i];
      document.getElementById('bar' + i).style.width = (mm * 2) + 'px';
      document.getElementById('mm' + i).textContent = mm ? mm + 'mm' : '';
    }
  }
};

refreshTracks();
refreshHistory();
</script>
</body>
</html>
`
