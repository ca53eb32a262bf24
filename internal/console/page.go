package console

// consolePage is the HTML served at the console root. It attaches to /ws,
// shows every line the server broadcasts, and lets the operator inject raw
// protocol lines from the browser.
const consolePage = `<!DOCTYPE html>
<html>
<head>
    <title>fake-irc-server console</title>
    <style>
        body { font-family: monospace; margin: 20px; }
        #lines {
            border: 1px solid #ccc;
            height: 300px;
            padding: 10px;
            overflow-y: scroll;
            margin: 10px 0;
            background-color: #f9f9f9;
            white-space: pre;
        }
        input[type="text"] { width: 500px; padding: 5px; margin-right: 10px; }
        button { padding: 5px 15px; cursor: pointer; }
        .status { margin: 10px 0; padding: 5px; }
        .connected { background-color: #d4edda; color: #155724; }
        .disconnected { background-color: #f8d7da; color: #721c24; }
    </style>
</head>
<body>
    <h1>fake-irc-server console</h1>
    <div id="status" class="status disconnected">Disconnected</div>
    <div>
        <input type="text" id="lineInput" placeholder=":srv NOTICE nick :hello" disabled>
        <button id="sendButton" onclick="sendLine()" disabled>Broadcast</button>
    </div>
    <div id="lines"></div>

    <script>
        const linesDiv = document.getElementById('lines');
        const lineInput = document.getElementById('lineInput');
        const sendButton = document.getElementById('sendButton');
        const statusDiv = document.getElementById('status');

        function addLine(line) {
            const el = document.createElement('div');
            el.textContent = line;
            linesDiv.appendChild(el);
            linesDiv.scrollTop = linesDiv.scrollHeight;
        }

        const ws = new WebSocket('ws://' + location.host + '/ws');
        ws.onopen = function() {
            statusDiv.textContent = 'Connected';
            statusDiv.className = 'status connected';
            lineInput.disabled = false;
            sendButton.disabled = false;
        };
        ws.onmessage = function(event) { addLine(event.data); };
        ws.onclose = function() {
            statusDiv.textContent = 'Disconnected';
            statusDiv.className = 'status disconnected';
            lineInput.disabled = true;
            sendButton.disabled = true;
        };

        function sendLine() {
            const line = lineInput.value;
            if (line && ws.readyState === WebSocket.OPEN) {
                ws.send(line);
                lineInput.value = '';
            }
        }

        lineInput.addEventListener('keypress', function(e) {
            if (e.key === 'Enter') { sendLine(); }
        });
    </script>
</body>
</html>`
