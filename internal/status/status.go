// Package status serves the health and progress of a run over HTTP.
package status

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"bioc-extractor/internal/dispatcher"
)

// ProgressFunc reports the current counters of a run.
type ProgressFunc func() dispatcher.ProgressSnapshot

// NewRouter returns the gin engine with the status routes.
func NewRouter(progress ProgressFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		host, _ := os.Hostname()
		c.JSON(http.StatusOK, gin.H{"hostname": host})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"healthy": true})
	})

	r.GET("/progress", func(c *gin.Context) {
		c.JSON(http.StatusOK, progress())
	})

	return r
}

// Server runs the status routes in the background for the length of a run.
type Server struct {
	srv *http.Server
	log logrus.FieldLogger
}

// Start listens on addr and serves until Shutdown.
func Start(addr string, progress ProgressFunc, log logrus.FieldLogger) *Server {
	s := &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(progress),
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log.WithField("addr", addr),
	}
	go func() {
		s.log.Info("Starting status server")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("status server stopped")
		}
	}()
	return s
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
