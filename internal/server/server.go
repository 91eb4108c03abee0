// Package server exposes the optimizer over HTTP
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/napolitain/solver-oasis/internal/api"
	"github.com/napolitain/solver-oasis/internal/auth"
	"github.com/napolitain/solver-oasis/internal/converter"
)

// Options configures the router
type Options struct {
	Users   auth.Users    // nil disables basic auth
	Timeout time.Duration // per optimization, 0 means no limit
}

// New builds the gin engine with every route registered
func New(svc *api.Service, logger *zap.Logger, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AddAllowHeaders("Authorization")
	r.Use(cors.New(config))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g := r.Group("/")
	if opts.Users != nil {
		g.Use(basicAuth(opts.Users))
	}

	h := &handlers{svc: svc, logger: logger, timeout: opts.Timeout}
	g.POST("/optimize", h.optimize)
	g.GET("/roster", h.roster)
	g.GET("/oasis", h.oasis)
	g.POST("/oasis/parse", h.parseOasis)

	return r
}

type handlers struct {
	svc     *api.Service
	logger  *zap.Logger
	timeout time.Duration
}

func (h *handlers) optimize(c *gin.Context) {
	var in converter.OptimizeRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, converter.ErrorResponse{Error: err.Error(), Field: "body"})
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := h.svc.Optimize(ctx, in)
	if err != nil {
		status, body := api.ErrorStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("optimize failed", zap.Error(err))
		}
		c.JSON(status, body)
		return
	}

	h.logger.Info("optimized",
		zap.String("tribe", in.Tribe),
		zap.Strings("troops", in.Troops),
		zap.Int("evaluations", res.Evaluations),
		zap.Stringer("score", res.ObjectiveScore),
		zap.Duration("took", time.Since(start)))
	c.JSON(http.StatusOK, res)
}

func (h *handlers) roster(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Roster())
}

func (h *handlers) oasis(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Oasis())
}

func (h *handlers) parseOasis(c *gin.Context) {
	var in converter.ParseOasisRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, converter.ErrorResponse{Error: err.Error(), Field: "body"})
		return
	}
	c.JSON(http.StatusOK, h.svc.ParseOasis(in))
}

func basicAuth(users auth.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		name, pass, ok := c.Request.BasicAuth()
		if !ok || !users.Check(name, pass) {
			c.Header("WWW-Authenticate", `Basic realm="oasis"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, converter.ErrorResponse{Error: "invalid credentials"})
			return
		}
		c.Set(gin.AuthUserKey, name)
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client", c.ClientIP()))
	}
}
