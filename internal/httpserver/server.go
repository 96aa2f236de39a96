// Package httpserver exposes the interview lifecycle, recruiter review,
// voice proxy and telemetry routes over HTTP.
package httpserver

import (
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
	"github.com/MuhammadMuneeeb/Recruitement/internal/invite"
	"github.com/MuhammadMuneeeb/Recruitement/internal/profile"
	"github.com/MuhammadMuneeeb/Recruitement/internal/scoring"
	"github.com/MuhammadMuneeeb/Recruitement/internal/store"
	"github.com/MuhammadMuneeeb/Recruitement/internal/voice"
)

// Deps wires the server's collaborators.
type Deps struct {
	Store     store.Store
	Engine    *interview.Engine
	Scorer    *scoring.Scorer
	Synths    []voice.Synthesizer
	Invites   invite.Sender
	InviteCfg invite.Config
	Profile   profile.Profile

	// AccessKey guards recruiter routes. Empty means open, which LoadServer
	// already warns about.
	AccessKey   string
	ModelActive bool
}

// Server is the configured Echo application.
type Server struct {
	Echo *echo.Echo

	deps  Deps
	locks tokenLocks
	clips *voice.ClipCache
}

// New builds the route table. Turn routes are rate limited per client IP;
// the TTS proxy gets a tighter bucket since synthesis is the expensive call.
func New(deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{Echo: e, deps: deps, clips: voice.NewClipCache()}

	e.GET("/healthz", s.health)
	e.GET("/api/ai/status", s.aiStatus)
	e.POST("/api/telemetry/turn-latency", s.turnLatency)

	// Separate buckets per route class: create is the easiest to abuse,
	// respond and tts do real model and synthesis work, everything else
	// shares a roomier default.
	ttsLimit := middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(5))
	createLimit := middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(3))
	respondLimit := middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(5))
	defaultLimit := middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20))

	e.POST("/api/voice/tts", s.synthesize, ttsLimit)

	api := e.Group("/api/interviews")
	api.POST("", s.createInterview, createLimit)
	api.GET("/:token", s.getInterview, defaultLimit)
	api.POST("/:token/start", s.startInterview, defaultLimit)
	api.POST("/:token/respond", s.respond, respondLimit)
	api.POST("/:token/submit", s.submit, defaultLimit)

	recruiter := e.Group("/api/recruiter", s.requireAccessKey)
	recruiter.GET("/interviews", s.listInterviews)
	recruiter.GET("/interviews/:token", s.interviewDetail)

	return s
}

// tokenLocks serializes turn handling per session so concurrent respond
// calls cannot interleave conversation appends.
type tokenLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (t *tokenLocks) locked(token string) func() {
	t.mu.Lock()
	if t.m == nil {
		t.m = make(map[string]*sync.Mutex)
	}
	l, ok := t.m[token]
	if !ok {
		l = &sync.Mutex{}
		t.m[token] = l
	}
	t.mu.Unlock()
	l.Lock()
	return l.Unlock
}
