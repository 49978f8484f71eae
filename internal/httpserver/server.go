package httpserver

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/autocruise/internal/cruise"
	"github.com/tinytelemetry/autocruise/internal/hostdoc"
	"github.com/tinytelemetry/autocruise/internal/model"
	"github.com/tinytelemetry/autocruise/internal/resolver"
)

const (
	defaultAddr         = "0.0.0.0:8080"
	defaultPendingTTL   = 2 * time.Minute
	defaultPendingLimit = 1024
	defaultTitle        = "Autocruise"
)

// Options configures a Server.
type Options struct {
	Addr         string
	HostDocument string           // path of the host HTML document; empty means none
	Fetcher      resolver.Fetcher // remote configuration documents
	PendingTTL   time.Duration    // how long a served shell may take to open its socket
	PendingLimit int
}

// Server serves cruise shells and drives one cruise.Session per connected shell.
type Server struct {
	addr         string
	hostDocument string
	fetcher      resolver.Fetcher
	hub          *Hub
	pending      *expirable.LRU[string, model.Config]
	server       *http.Server
	ctx          context.Context
	cancel       context.CancelFunc
	startTime    time.Time
}

// NewServer creates a new cruise HTTP server.
func NewServer(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = defaultAddr
	}
	if opts.PendingTTL <= 0 {
		opts.PendingTTL = defaultPendingTTL
	}
	if opts.PendingLimit <= 0 {
		opts.PendingLimit = defaultPendingLimit
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:         opts.Addr,
		hostDocument: opts.HostDocument,
		fetcher:      opts.Fetcher,
		hub:          NewHub(),
		pending:      expirable.NewLRU[string, model.Config](opts.PendingLimit, nil, opts.PendingTTL),
		ctx:          ctx,
		cancel:       cancel,
		startTime:    time.Now(),
	}
}

// Hub returns the live session registry.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", s.handleIndex)
	r.GET("/ws/:id", s.handleWS)
	r.GET("/api/health", s.handleHealth)
	r.GET("/api/sessions", s.handleSessions)
	r.GET("/api/config", s.handleConfig)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.routes(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()
	log.Printf("httpserver: listening on %s", listener.Addr())

	go s.server.Serve(listener)
	return nil
}

// Stop ends every session and gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// resolve runs the configuration pipeline for one request.
func (s *Server) resolve(c *gin.Context) (resolver.Resolution, *hostdoc.Document, error) {
	doc, err := hostdoc.Load(s.hostDocument)
	if err != nil {
		return resolver.Resolution{}, nil, err
	}
	in := resolver.Input{
		BodyAttributes: doc.BodyAttributes,
		Query:          c.Request.URL.RawQuery,
		Anchors:        doc.Anchors,
		Base:           requestURL(c.Request),
	}
	return resolver.Resolve(c.Request.Context(), in, s.fetcher), doc, nil
}

func (s *Server) handleIndex(c *gin.Context) {
	res, doc, err := s.resolve(c)
	if err != nil {
		log.Printf("httpserver: host document: %v", err)
		c.String(http.StatusInternalServerError, "failed to read host document")
		return
	}

	title := firstNonEmpty(res.Config.Title, doc.Title, defaultTitle)

	if res.Err != nil {
		log.Printf("httpserver: %v", res.Err)
		s.render(c, http.StatusBadGateway, "error", errorPage{Title: title, Diagnostic: template.HTML(res.Err.HTML())})
		return
	}
	if !res.Config.HasPages() {
		s.render(c, http.StatusOK, "usage", usagePage{Title: title, Usage: resolver.Usage})
		return
	}

	id := uuid.NewString()
	s.pending.Add(id, res.Config)
	s.render(c, http.StatusOK, "shell", shellPage{
		Title:      title,
		ID:         id,
		Background: res.Config.BackgroundColor,
	})
}

func (s *Server) render(c *gin.Context, code int, name string, data any) {
	var buf bytes.Buffer
	if err := renderPage(&buf, name, data); err != nil {
		log.Printf("httpserver: render %s: %v", name, err)
		c.String(http.StatusInternalServerError, "render error")
		return
	}
	c.Data(code, "text/html; charset=utf-8", buf.Bytes())
}

// claim hands a pending configuration to exactly one socket.
func (s *Server) claim(id string) (model.Config, bool) {
	cfg, ok := s.pending.Get(id)
	if !ok || !s.pending.Remove(id) {
		return model.Config{}, false
	}
	return cfg, true
}

func (s *Server) handleWS(c *gin.Context) {
	id := c.Param("id")
	cfg, ok := s.claim(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown or expired session"})
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("httpserver: websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	vp, err := readHello(ctx, conn)
	if err != nil {
		log.Printf("httpserver: session %s: %v", id, err)
		conn.Close(websocket.StatusPolicyViolation, "expected hello")
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	surface := newWSSurface(gctx)
	sess := cruise.NewSession(cfg, surface, vp)

	s.hub.add(id, c.Request.RemoteAddr, sess)
	defer s.hub.remove(id)
	log.Printf("httpserver: session %s started (%d pages, %s)", id, len(cfg.Pages), c.Request.RemoteAddr)

	g.Go(func() error { return sess.Run(gctx) })
	g.Go(func() error { return surface.writeLoop(gctx, conn) })
	g.Go(func() error {
		defer cancel()
		return readLoop(gctx, conn, sess)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("httpserver: session %s: %v", id, err)
	}
	log.Printf("httpserver: session %s ended", id)

	if s.ctx.Err() != nil {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"uptime":   time.Since(s.startTime).String(),
		"sessions": s.hub.Len(),
		"pending":  s.pending.Len(),
	})
}

func (s *Server) handleSessions(c *gin.Context) {
	sessions, err := s.hub.Sessions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read session status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// handleConfig reports the configuration a shell request with the same
// query would resolve to.
func (s *Server) handleConfig(c *gin.Context) {
	res, _, err := s.resolve(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read host document"})
		return
	}

	body := gin.H{
		"title":            res.Config.Title,
		"view":             res.Config.View,
		"interval_seconds": res.Config.Interval.Seconds(),
		"pages":            res.Config.Pages,
		"config_url":       res.ConfigURL,
	}
	if res.Err != nil {
		body["error"] = res.Err.Error()
		c.JSON(http.StatusBadGateway, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

// requestURL reconstructs the absolute URL of r for resolving relative
// configuration references.
func requestURL(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fp := r.Header.Get("X-Forwarded-Proto"); fp != "" {
		scheme = fp
	}
	return &url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: r.URL.RawQuery}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
