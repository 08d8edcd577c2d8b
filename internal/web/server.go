// Package web serves the explorer pages.
package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"monad-explorer/internal/health"
	"monad-explorer/internal/interfaces"
	"monad-explorer/internal/theme"
	"monad-explorer/internal/wallet"
)

// ChainInfo is the network branding shown on every page.
type ChainInfo struct {
	Name                string
	Symbol              string
	ExternalExplorerURL string
}

// Options are the collaborators of a Server. Emitter may be nil.
type Options struct {
	Explorer interfaces.Explorer
	Emitter  interfaces.EventEmitter
	Wallet   *wallet.Registration
	Theme    *theme.State
	Health   *health.Checker
	Chain    ChainInfo
	Logger   *zerolog.Logger
}

type Server struct {
	explorer interfaces.Explorer
	emitter  interfaces.EventEmitter
	wallet   *wallet.Registration
	theme    *theme.State
	health   *health.Checker
	chain    ChainInfo
	logger   *zerolog.Logger
	engine   *gin.Engine
}

// NewServer parses the page templates and registers every route.
func NewServer(opts Options) (*Server, error) {
	if opts.Explorer == nil {
		return nil, errors.New("explorer is required")
	}
	if opts.Wallet == nil || opts.Theme == nil || opts.Health == nil {
		return nil, errors.New("wallet, theme and health are required")
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		explorer: opts.Explorer,
		emitter:  opts.Emitter,
		wallet:   opts.Wallet,
		theme:    opts.Theme,
		health:   opts.Health,
		chain:    opts.Chain,
		logger:   opts.Logger,
	}

	engine := gin.New()
	engine.Use(requestLogger(s.logger), recovery(s.logger))
	engine.SetHTMLTemplate(tmpl)
	s.engine = engine
	s.routes()

	return s, nil
}

func (s *Server) routes() {
	r := s.engine

	r.GET("/", s.homeHandler())
	r.GET("/search", s.searchHandler())
	r.GET("/block/:id", s.blockHandler())
	r.GET("/tx/:hash", s.txHandler())
	r.GET("/address/:address", s.addressHandler())
	r.GET("/faq", s.faqHandler())

	r.POST("/theme", s.themeHandler())

	r.GET("/wallet/chain", s.walletChainHandler())
	r.POST("/wallet/register", s.walletRegisterHandler())

	r.GET("/healthz", gin.WrapF(health.LivenessHandler))
	r.GET("/readyz", gin.WrapF(s.health.ReadinessHandler))

	r.NoRoute(func(c *gin.Context) {
		s.renderError(c, http.StatusNotFound, "Page Not Found", "The page you are looking for does not exist.")
	})
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// HTTPServer wraps the handler with the given address and timeouts.
func (s *Server) HTTPServer(addr string, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}
}
