package dashboard

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"emperror.dev/errors"
	"github.com/GTANeijasAcc/GTANBot/bot"
	"github.com/GTANeijasAcc/GTANBot/commands/custom"
	"github.com/GTANeijasAcc/GTANBot/presence"
	"github.com/GTANeijasAcc/GTANBot/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var logger = utils.GetLogger("dashboard")

// BotInfo is the read only view of the running bot
type BotInfo interface {
	Stats() bot.Stats
	Guilds() []bot.GuildInfo
}

type PresenceControl interface {
	Info() presence.Info
	SetState(index int) error
}

type CommandManager interface {
	Create(cmd custom.Command) (custom.Command, error)
	Delete(name string) error
}

type LogSource interface {
	Entries() []utils.LogEntry
}

// Deps are the collaborators the dashboard reads from and controls
type Deps struct {
	Bot      BotInfo
	Presence PresenceControl
	Commands CommandManager
	Logs     LogSource
}

type Server struct {
	router *gin.Engine
	srv    *http.Server
	deps   Deps
}

func NewServer(deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.SetHTMLTemplate(template.Must(template.New("dashboard").Funcs(templateFuncs).Parse(pageTemplate)))

	s := &Server{
		router: router,
		deps:   deps,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.page)

	api := s.router.Group("/api")
	api.GET("/stats", s.stats)
	api.GET("/guilds", s.guilds)
	api.GET("/commands", s.listCommands)
	api.GET("/categories", s.categories)
	api.POST("/commands/create", s.createCommand)
	api.DELETE("/commands/:name", s.deleteCommand)
	api.GET("/logs", s.logs)
	api.GET("/presence", s.presenceInfo)
	api.POST("/presence/state", s.setPresenceState)

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Handler exposes the routes, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr in the background until Shutdown
func (s *Server) Start(addr string) {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Dashboard server running on http://%s", addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Dashboard server stopped")
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithField("method", c.Request.Method).
			WithField("path", c.Request.URL.Path).
			WithField("status", c.Writer.Status()).
			WithField("latency", time.Since(start)).
			Debug("Handled dashboard request")
	}
}
