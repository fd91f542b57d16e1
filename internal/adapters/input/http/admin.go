package http

import (
	"fmt"
	"net/http"
)

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, adminPage)
}

const adminPage = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Jinding Setup</title>
    <style>
        body { font-family: sans-serif; max-width: 1100px; margin: 40px auto; padding: 20px; line-height: 1.6; background-color: #f4f4f9; }
        .tabs { display: flex; border-bottom: 2px solid #007bff; margin-bottom: 20px; }
        .tab { padding: 10px 20px; cursor: pointer; }
        .tab.active { border-radius: 4px 4px 0 0; background: white; font-weight: bold; color: #007bff; }
        .content { display: none; padding: 20px; background: white; border: 1px solid #ccc; }
        .content.active { display: block; }
        input, select, textarea { width: 100%; padding: 8px; margin-bottom: 10px; box-sizing: border-box; }
        button { padding: 8px 14px; background: #007bff; color: white; border: none; cursor: pointer; border-radius: 4px; }
        button.delete { background: #dc3545; }
        table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        pre { background: #f8f9fa; padding: 10px; overflow-x: auto; }
        #status { position: fixed; bottom: 20px; right: 20px; padding: 10px; display: none; }
        .success { background: #d4edda; color: #155724; }
        .error { background: #f8d7da; color: #721c24; }
    </style>
</head>
<body>
    <h1>Jinding Setup</h1>
    <p id="summary"></p>
    <div class="tabs">
        <div class="tab active" data-tab="connection">1. Connection</div>
        <div class="tab" data-tab="knx">2. KNX</div>
        <div class="tab" data-tab="bind">3. Bind keys</div>
        <div class="tab" data-tab="scripts">4. Scripts</div>
    </div>

    <div id="connection" class="content active">
        <label>Home Assistant URL</label>
        <input id="hass_url" placeholder="http://192.168.1.10:8123">
        <label>Long-lived token</label>
        <input id="hass_token" type="password">
        <button onclick="saveConfig()">Log in</button>
        <button onclick="refresh()">Refresh devices</button>
    </div>

    <div id="knx" class="content">
        <table id="knxTable"><thead><tr><th>Name</th><th>Address</th><th></th></tr></thead><tbody></tbody></table>
        <input id="knx_name" placeholder="Name">
        <input id="knx_address" placeholder="1/2/3">
        <button onclick="addKNX()">Add</button>
        <pre id="knxText"></pre>
    </div>

    <div id="bind" class="content">
        <table id="keyTable"><thead><tr><th>Device</th><th>Key</th><th>Light</th></tr></thead><tbody></tbody></table>
    </div>

    <div id="scripts" class="content">
        <button onclick="loadScripts()">Generate</button>
        <pre id="scriptText"></pre>
    </div>

    <div id="status"></div>

    <script>
        let knxItems = [];
        let lights = [];

        document.querySelectorAll('.tab').forEach(t => t.onclick = () => {
            document.querySelectorAll('.tab, .content').forEach(e => e.classList.remove('active'));
            t.classList.add('active');
            document.getElementById(t.dataset.tab).classList.add('active');
        });

        async function call(method, url, body) {
            const res = await fetch(url, { method, body: body === undefined ? undefined : JSON.stringify(body) });
            if (!res.ok) {
                let msg = res.statusText;
                try { msg = (await res.json()).error || msg; } catch (e) {}
                throw new Error(msg);
            }
            return res;
        }

        function showStatus(msg, ok) {
            const s = document.getElementById('status');
            s.textContent = msg;
            s.className = ok ? 'success' : 'error';
            s.style.display = 'block';
            setTimeout(() => { s.style.display = 'none'; }, 3000);
        }

        async function loadSummary() {
            const sum = await (await call('GET', '/admin/summary')).json();
            document.getElementById('summary').textContent =
                sum.knx_items + ' KNX items, ' + sum.devices + ' devices, ' + sum.keys + ' keys, ' + sum.bound + ' bound';
        }

        async function loadConfig() {
            const cfg = await (await call('GET', '/admin/config')).json();
            document.getElementById('hass_url').value = cfg.hass_url || '';
            document.getElementById('hass_token').placeholder = cfg.configured ? 'saved, enter a new token to replace it' : '';
        }

        async function saveConfig() {
            try {
                await call('POST', '/admin/config', {
                    hass_url: document.getElementById('hass_url').value,
                    hass_token: document.getElementById('hass_token').value
                });
                showStatus('Logged in', true);
                await refresh();
            } catch (e) { showStatus('Error: ' + e.message, false); }
        }

        async function refresh() {
            try {
                await call('POST', '/admin/refresh');
                showStatus('Devices refreshed', true);
            } catch (e) { showStatus('Error: ' + e.message, false); }
            await loadKeys();
            await loadSummary();
        }

        async function loadKNX() {
            knxItems = await (await call('GET', '/admin/knx')).json();
            const tbody = document.querySelector('#knxTable tbody');
            tbody.innerHTML = '';
            knxItems.forEach((item, i) => {
                const tr = document.createElement('tr');
                tr.innerHTML = '<td></td><td></td><td><button class="delete">Delete</button></td>';
                tr.children[0].textContent = item.name;
                tr.children[1].textContent = item.address;
                tr.querySelector('button').onclick = () => saveKNX(knxItems.filter((_, j) => j !== i));
                tbody.appendChild(tr);
            });
            document.getElementById('knxText').textContent = await (await call('GET', '/admin/knx.yaml')).text();
        }

        async function saveKNX(items) {
            try {
                await call('PUT', '/admin/knx', items);
                await loadKNX();
                await loadSummary();
            } catch (e) { showStatus('Error: ' + e.message, false); }
        }

        function addKNX() {
            saveKNX(knxItems.concat([{
                name: document.getElementById('knx_name').value,
                address: document.getElementById('knx_address').value
            }]));
        }

        async function loadKeys() {
            lights = await (await call('GET', '/admin/lights')).json();
            const keys = await (await call('GET', '/admin/keys')).json();
            const tbody = document.querySelector('#keyTable tbody');
            tbody.innerHTML = '';
            keys.forEach(k => {
                const tr = document.createElement('tr');
                tr.innerHTML = '<td></td><td></td><td><select></select></td>';
                tr.children[0].textContent = k.device_name;
                tr.children[1].textContent = k.name + ' (' + k.entity_id + ')';
                const sel = tr.querySelector('select');
                sel.add(new Option('-- none --', ''));
                lights.forEach(l => sel.add(new Option(l.label, l.value)));
                sel.value = k.light_id || '';
                sel.onchange = async () => {
                    try {
                        await call('PUT', '/admin/bindings', { entityId: k.entity_id, knxItemId: sel.value });
                        await loadSummary();
                    } catch (e) { showStatus('Error: ' + e.message, false); }
                };
                tbody.appendChild(tr);
            });
        }

        async function loadScripts() {
            document.getElementById('scriptText').textContent = await (await call('GET', '/admin/automations.yaml')).text();
        }

        loadConfig();
        loadKNX();
        loadKeys();
        loadSummary();
    </script>
</body>
</html>
`
