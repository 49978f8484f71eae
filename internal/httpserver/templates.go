package httpserver

import (
	"html/template"
	"io"
)

const tmplBase = `
{{define "base"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Title}}</title>
{{template "head" .}}
</head>
{{template "body" .}}
</html>{{end}}
`

// tmplShell is the browser side of a cruise session. It only applies the
// operations pushed by the server and reports DOM events back.
const tmplShell = `
{{define "head"}}<style>
html,body{margin:0;padding:0;overflow:hidden}
#ac-header{margin:0;padding:0;height:20px;width:100%;background:black;color:gray;font:13px monospace;white-space:nowrap;overflow:hidden;cursor:pointer}
.ac-container{position:absolute;margin:0;padding:0;overflow:hidden}
.ac-frame{position:absolute;left:0;top:0;border:none;background:white;transform-origin:0 0}
.ac-cover{position:absolute;left:0;top:0;cursor:pointer}
</style>{{end}}
{{define "body"}}<body style="background-color:{{.Background}}">
<div id="ac-header"></div>
<div id="ac-slots"></div>
<script>
(function () {
  const sessionID = {{.ID}};
  const header = document.getElementById("ac-header");
  const slotsRoot = document.getElementById("ac-slots");
  const slots = [];
  const proto = location.protocol === "https:" ? "wss:" : "ws:";
  const ws = new WebSocket(proto + "//" + location.host + "/ws/" + encodeURIComponent(sessionID));

  function send(msg) {
    if (ws.readyState === WebSocket.OPEN) {
      ws.send(JSON.stringify(msg));
    }
  }

  function px(v) { return v + "px"; }

  function build(msg) {
    slotsRoot.textContent = "";
    slots.length = 0;
    (msg.slots || []).forEach(function (s) {
      const div = document.createElement("div");
      div.className = "ac-container";
      div.style.backgroundColor = msg.background;
      const frame = document.createElement("iframe");
      frame.className = "ac-frame";
      const cover = document.createElement("div");
      cover.className = "ac-cover";
      const entry = { div: div, frame: frame, cover: cover, assigned: false };
      frame.addEventListener("load", function () {
        if (!entry.assigned) {
          return;
        }
        send({ type: "loaded", index: s.index });
        try {
          frame.contentWindow.document.addEventListener("click", function () {
            send({ type: "pause" });
          });
        } catch (e) {
          // cross-origin frames are only reachable through the cover
        }
      });
      cover.addEventListener("click", function () {
        send({ type: "click", index: s.index });
      });
      div.appendChild(frame);
      div.appendChild(cover);
      slotsRoot.appendChild(div);
      slots[s.index] = entry;
      applySlot(s);
    });
  }

  function applySlot(s) {
    const e = slots[s.index];
    if (!e) {
      return;
    }
    const c = s.container;
    e.div.style.left = px(c.left);
    e.div.style.top = px(c.top);
    e.div.style.width = px(c.width);
    e.div.style.height = px(c.height);
    e.div.style.zIndex = c.z;
    e.frame.style.width = px(s.frame.width);
    e.frame.style.height = px(s.frame.height);
    e.frame.style.transform = "scale(" + s.frame.scale + ")";
    e.cover.style.width = px(s.cover.width);
    e.cover.style.height = px(s.cover.height);
    e.cover.style.display = s.cover.visible ? "block" : "none";
  }

  function applyHeader(h) {
    header.textContent = h.text;
    header.style.color = h.color;
    header.style.background = h.background;
    header.style.display = h.visible ? "block" : "none";
  }

  ws.addEventListener("open", function () {
    send({ type: "hello", width: window.innerWidth, height: window.innerHeight });
  });

  ws.addEventListener("message", function (ev) {
    const msg = JSON.parse(ev.data);
    switch (msg.op) {
    case "build":
      build(msg);
      break;
    case "slot":
      applySlot(msg.slot);
      break;
    case "header":
      applyHeader(msg.header);
      break;
    case "src":
      if (slots[msg.index]) {
        slots[msg.index].assigned = true;
        slots[msg.index].frame.src = msg.url;
      }
      break;
    case "broadcast":
      slots.forEach(function (e) {
        try {
          e.frame.contentWindow.postMessage(msg.data, "*");
        } catch (err) {
          // ignored
        }
      });
      break;
    }
  });

  header.addEventListener("click", function () { send({ type: "header" }); });
  header.addEventListener("mouseenter", function () { send({ type: "hover", in: true }); });
  header.addEventListener("mouseleave", function () { send({ type: "hover", in: false }); });
  window.addEventListener("resize", function () {
    send({ type: "resize", width: window.innerWidth, height: window.innerHeight });
  });
  window.addEventListener("message", function (ev) {
    if (ev.source !== window.parent && ev.source !== window.top) {
      return;
    }
    if (typeof ev.data === "string") {
      send({ type: "message", data: ev.data, width: window.innerWidth, height: window.innerHeight });
    }
  });
})();
</script>
</body>{{end}}
`

const tmplError = `
{{define "head"}}{{end}}
{{define "body"}}<body>
{{.Diagnostic}}
</body>{{end}}
`

const tmplUsage = `
{{define "head"}}{{end}}
{{define "body"}}<body>
<h3>autocruise</h3><pre>{{.Usage}}</pre>
</body>{{end}}
`

type shellPage struct {
	Title      string
	ID         string
	Background string
}

type errorPage struct {
	Title      string
	Diagnostic template.HTML // already escaped by resolver.FetchError.HTML
}

type usagePage struct {
	Title string
	Usage string
}

var pages = map[string]*template.Template{
	"shell": template.Must(template.New("page").Parse(tmplBase + tmplShell)),
	"error": template.Must(template.New("page").Parse(tmplBase + tmplError)),
	"usage": template.Must(template.New("page").Parse(tmplBase + tmplUsage)),
}

func renderPage(w io.Writer, name string, data any) error {
	return pages[name].ExecuteTemplate(w, "base", data)
}
