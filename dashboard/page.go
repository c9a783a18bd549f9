package dashboard

import (
	"html/template"
	"strings"
)

var templateFuncs = template.FuncMap{
	"lower": strings.ToLower,
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Stats.Username}} Dashboard</title>
<style>
body { font-family: sans-serif; background: #1e1f22; color: #e3e5e8; margin: 2rem; }
.stats { display: flex; flex-wrap: wrap; gap: 1rem; }
.stat-item { background: #2b2d31; padding: 1rem; border-radius: 8px; min-width: 8rem; }
.stat-value { font-size: 1.5rem; font-weight: bold; }
.status-indicator { display: inline-block; width: .75rem; height: .75rem; border-radius: 50%; }
.status-indicator.online { background: #4caf50; }
.status-indicator.offline { background: #f44336; }
.state-btn { margin: .25rem; padding: .5rem 1rem; }
.state-btn.active { background: #74b9ff; }
</style>
</head>
<body>
<h1 class="bot-status"><span class="status-indicator {{lower .Stats.Status}}"></span> {{.Stats.Username}} <span class="status-text">{{.Stats.Status}}</span></h1>

<section class="stats">
  <div class="stat-item"><div class="stat-label">Servers</div><div class="stat-value">{{.Stats.Guilds}}</div></div>
  <div class="stat-item"><div class="stat-label">Users</div><div class="stat-value">{{.Stats.Users}}</div></div>
  <div class="stat-item"><div class="stat-label">Channels</div><div class="stat-value">{{.Stats.Channels}}</div></div>
  <div class="stat-item"><div class="stat-label">Commands</div><div class="stat-value">{{.Stats.Commands}}</div></div>
  <div class="stat-item"><div class="stat-label">Ping</div><div class="stat-value">{{.Stats.Ping}}ms</div></div>
  <div class="stat-item"><div class="stat-label">Uptime</div><div class="stat-value">{{.Stats.Uptime}}</div></div>
  <div class="stat-item"><div class="stat-label">Pending unmutes</div><div class="stat-value">{{.Stats.PendingUnmutes}}</div></div>
</section>

<section class="presence">
  <h2>Presence</h2>
  <p class="presence-game">Playing {{.Presence.GameName}}</p>
  <p class="presence-details">{{.Presence.Details}}</p>
  {{range $i, $state := .Presence.States}}
  <button class="state-btn{{if eq $i $.Presence.StateIndex}} active{{end}}" data-index="{{$i}}" onclick="setPresenceState({{$i}})">{{$state}}</button>
  {{end}}
</section>

<section class="guilds">
  <h2>Servers</h2>
  <ul>
  {{range .Guilds}}<li class="guild" data-id="{{.ID}}">{{.Name}} ({{.MemberCount}} members)</li>
  {{else}}<li class="guild-empty">Not in any servers</li>{{end}}
  </ul>
</section>

<script>
function setPresenceState(stateIndex) {
  fetch('/api/presence/state', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({stateIndex: stateIndex})
  }).then(r => r.json()).then(data => {
    if (data.success) {
      document.querySelectorAll('.state-btn').forEach((btn, i) => btn.classList.toggle('active', i === stateIndex));
    } else {
      alert('Failed to update presence state: ' + data.error);
    }
  });
}

setInterval(() => {
  fetch('/api/stats').then(r => r.json()).then(data => {
    const values = document.querySelectorAll('.stat-item .stat-value');
    [data.guilds, data.users, data.channels, data.commands, data.ping + 'ms', data.uptime, data.pendingUnmutes]
      .forEach((v, i) => { if (values[i]) values[i].textContent = v; });
    document.querySelector('.status-indicator').className = 'status-indicator ' + data.status;
  });
}, 30000);
</script>
</body>
</html>
`
