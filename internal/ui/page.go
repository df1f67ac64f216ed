package ui

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Mouse Jitter</title>
    <style>
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: linear-gradient(135deg, #1a1a2e 0%, #16213e 100%);
            color: #e2e8f0;
            min-height: 100vh;
            padding: 2rem;
        }
        .container { max-width: 520px; margin: 0 auto; }
        h1 {
            font-size: 1.75rem;
            font-weight: 700;
            margin-bottom: 1.5rem;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            -webkit-background-clip: text;
            -webkit-text-fill-color: transparent;
        }
        .card {
            background: rgba(255,255,255,0.05);
            border: 1px solid rgba(255,255,255,0.1);
            border-radius: 16px;
            padding: 1.5rem;
            margin-bottom: 1.5rem;
        }
        .row {
            display: grid;
            grid-template-columns: 10rem 1fr 5rem;
            gap: 0.75rem;
            align-items: center;
            margin-bottom: 0.75rem;
        }
        .row label { font-size: 0.875rem; color: #94a3b8; }
        input[type="text"] {
            background: rgba(255,255,255,0.1);
            border: 1px solid rgba(255,255,255,0.2);
            border-radius: 8px;
            padding: 0.4rem;
            color: #e2e8f0;
            font-size: 0.875rem;
            width: 100%;
        }
        input:focus { outline: none; border-color: #667eea; }
        .btn {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            border: none;
            border-radius: 8px;
            padding: 0.6rem 1.5rem;
            color: white;
            font-weight: 600;
            cursor: pointer;
            font-size: 0.875rem;
        }
        .btn-danger { background: rgba(239,68,68,0.8); }
        .actions { display: flex; justify-content: space-between; margin-top: 1rem; }
        .note { color: #94a3b8; font-size: 0.8rem; margin-top: 1rem; text-align: center; }
        .flags { display: flex; gap: 0.5rem; }
        .flag {
            padding: 0.25rem 0.75rem;
            border-radius: 6px;
            font-size: 0.8rem;
            background: rgba(255,255,255,0.08);
            color: #64748b;
        }
        .flag.on { background: rgba(16,185,129,0.2); color: #34d399; }
        #stats { color: #94a3b8; font-size: 0.8rem; margin-top: 0.75rem; }
        #closed { display: none; color: #f87171; margin-top: 0.75rem; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Mouse Jitter</h1>

        <div class="card">
            {{range .}}
            <div class="row">
                <label for="{{.Name}}-text">{{.Label}}</label>
                <input type="range" id="{{.Name}}-slider" data-field="{{.Name}}"
                       min="{{.Min}}" max="{{.Max}}" step="{{.Step}}" value="{{.Slider}}">
                <input type="text" id="{{.Name}}-text" data-field="{{.Name}}" value="{{.Text}}" size="7">
            </div>
            {{end}}
            <div class="actions">
                <button class="btn" id="apply">Apply</button>
                <button class="btn btn-danger" id="quit">Quit</button>
            </div>
            <p class="note">The default settings are recommended.</p>
        </div>

        <div class="card">
            <div class="flags">
                <span class="flag" id="flag-left">Left</span>
                <span class="flag" id="flag-right">Right</span>
                <span class="flag" id="flag-active">Jitter</span>
            </div>
            <div id="stats"></div>
            <div id="closed">Mouse Jitter has stopped. You can close this tab.</div>
        </div>

        <div class="card">
            <label><input type="checkbox" id="start-on-boot"> Start on login</label>
        </div>
    </div>

    <script>
        async function post(path, body) {
            const res = await fetch(path, {
                method: 'POST',
                headers: {'Content-Type': 'application/json'},
                body: JSON.stringify(body)
            });
            if (!res.ok) throw new Error(await res.text());
            return res.json();
        }

        function show(fv) {
            document.getElementById(fv.name + '-slider').value = fv.slider;
            document.getElementById(fv.name + '-text').value = fv.text;
        }

        document.querySelectorAll('input[type="range"]').forEach(el => {
            el.addEventListener('input', async () => {
                show(await post('/api/slide', {field: el.dataset.field, value: parseFloat(el.value)}));
            });
        });

        document.querySelectorAll('input[type="text"]').forEach(el => {
            el.addEventListener('blur', async () => {
                show(await post('/api/blur', {field: el.dataset.field, text: el.value}));
            });
        });

        document.getElementById('apply').addEventListener('click', async () => {
            const body = {};
            document.querySelectorAll('input[type="text"]').forEach(el => {
                body[el.dataset.field] = el.value;
            });
            const res = await post('/api/apply', body);
            res.fields.forEach(show);
        });

        document.getElementById('quit').addEventListener('click', () => post('/api/quit', {}));

        document.getElementById('start-on-boot').addEventListener('change', async (e) => {
            try { await post('/api/general', {start_on_boot: e.target.checked}); } catch (err) { e.target.checked = !e.target.checked; }
        });

        fetch('/api/settings').then(r => r.json()).then(s => {
            document.getElementById('start-on-boot').checked = !!(s.general && s.general.start_on_boot);
        });

        function setFlag(id, on) {
            document.getElementById(id).classList.toggle('on', on);
        }

        function connect() {
            const ws = new WebSocket('ws://' + location.host + '/ws');
            ws.onmessage = (ev) => {
                const msg = JSON.parse(ev.data);
                if (msg.type === 'status') {
                    const st = msg.payload.state;
                    setFlag('flag-left', st.left_pressed);
                    setFlag('flag-right', st.right_pressed);
                    setFlag('flag-active', st.active);
                    document.getElementById('stats').textContent =
                        msg.payload.stats.cycles + ' cycles, ' + msg.payload.stats.failures + ' failed moves';
                } else if (msg.type === 'shutdown') {
                    document.getElementById('closed').style.display = 'block';
                    ws.onclose = null;
                }
            };
            ws.onclose = () => setTimeout(connect, 2000);
        }
        connect();
    </script>
</body>
</html>`
