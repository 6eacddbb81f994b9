package live

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 0; padding: 1rem; color: #111827; }
  main > * + * { margin-top: 1rem; }
  h1 { font-size: 1.5rem; font-weight: 700; margin: 0; }
  .card { display: inline-block; border: 1px solid #e5e7eb; border-radius: 0.5rem; padding: 1rem; box-shadow: 0 1px 2px rgba(0,0,0,.05); }
  .card svg { display: block; touch-action: none; }
  .card circle { cursor: grab; }
  .card circle.dragging { cursor: grabbing; }
  .caption { font-size: 0.875rem; color: #4b5563; max-width: 600px; animation: fade-in 1s ease-out both; }
  @keyframes fade-in { from { opacity: 0; } to { opacity: 1; } }
  button { font: inherit; padding: 0.5rem 1rem; border-radius: 0.375rem; border: 0; background: #111827; color: #fff; cursor: pointer; }
  .status { font-size: 0.75rem; color: #9ca3af; }
</style>
</head>
<body>
<main>
  <h1>&#x1F9E0; {{.Title}}</h1>
  <div class="card">{{.SVG}}</div>
  <p class="caption">{{.Caption}}</p>
  <button id="refresh" type="button">Refresh Sync</button>
  <p class="status" id="status">connecting</p>
</main>
<script>
(function () {
  const NS = "http://www.w3.org/2000/svg";
  const svg = document.getElementById("reasoning-graph");
  const status = document.getElementById("status");
  let ws = null;
  let generation = -1;
  let dragging = null;

  function point(evt) {
    const p = svg.createSVGPoint();
    p.x = evt.clientX;
    p.y = evt.clientY;
    return p.matrixTransform(svg.getScreenCTM().inverse());
  }

  function send(msg) {
    if (ws && ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify(msg));
  }

  function rebuild(frame) {
    const links = svg.querySelector("g.links");
    const nodes = svg.querySelector("g.nodes");
    links.replaceChildren();
    nodes.replaceChildren();
    for (const l of frame.lines) {
      const el = document.createElementNS(NS, "line");
      el.dataset.source = l.source;
      el.dataset.target = l.target;
      el.setAttribute("stroke-width", "2");
      links.appendChild(el);
    }
    for (const c of frame.circles) {
      const el = document.createElementNS(NS, "circle");
      el.dataset.id = c.id;
      el.setAttribute("r", c.r);
      el.setAttribute("fill", c.fill);
      const title = document.createElementNS(NS, "title");
      title.textContent = c.id;
      el.appendChild(title);
      nodes.appendChild(el);
    }
    generation = frame.generation;
  }

  function draw(frame) {
    if (frame.generation !== generation) rebuild(frame);
    const lines = svg.querySelectorAll("g.links line");
    frame.lines.forEach(function (l, i) {
      const el = lines[i];
      el.setAttribute("x1", l.x1);
      el.setAttribute("y1", l.y1);
      el.setAttribute("x2", l.x2);
      el.setAttribute("y2", l.y2);
    });
    const circles = svg.querySelectorAll("g.nodes circle");
    frame.circles.forEach(function (c, i) {
      circles[i].setAttribute("cx", c.cx);
      circles[i].setAttribute("cy", c.cy);
    });
  }

  svg.addEventListener("pointerdown", function (evt) {
    const el = evt.target.closest("circle");
    if (!el) return;
    const p = point(evt);
    dragging = el.dataset.id;
    el.classList.add("dragging");
    svg.setPointerCapture(evt.pointerId);
    send({type: "dragstart", id: dragging, x: p.x, y: p.y});
  });
  svg.addEventListener("pointermove", function (evt) {
    if (!dragging) return;
    const p = point(evt);
    send({type: "drag", id: dragging, x: p.x, y: p.y});
  });
  function release(evt) {
    if (!dragging) return;
    send({type: "dragend", id: dragging});
    const el = svg.querySelector("circle.dragging");
    if (el) el.classList.remove("dragging");
    dragging = null;
  }
  svg.addEventListener("pointerup", release);
  svg.addEventListener("pointercancel", release);

  document.getElementById("refresh").addEventListener("click", function () {
    fetch("api/refresh", {method: "POST"});
  });

  function connect() {
    const proto = location.protocol === "https:" ? "wss:" : "ws:";
    ws = new WebSocket(proto + "//" + location.host + location.pathname.replace(/[^/]*$/, "") + "ws");
    ws.onopen = function () { status.textContent = "live"; };
    ws.onmessage = function (evt) {
      const msg = JSON.parse(evt.data);
      if (msg.type === "frame") draw(msg.frame);
      else if (msg.type === "error") console.warn(msg.code, msg.message);
    };
    ws.onclose = function () {
      status.textContent = "disconnected, retrying";
      dragging = null;
      setTimeout(connect, 1000);
    };
  }
  connect();
})();
</script>
</body>
</html>
`))
