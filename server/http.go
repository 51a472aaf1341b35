package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/exvulsec/harpoon/config"
	"github.com/exvulsec/harpoon/engine"
)

type HTTPServer struct {
	srv     *http.Server
	routers *gin.Engine
}

// NewHTTPServer exposes health and engine stats endpoints next to the
// pipeline.
func NewHTTPServer(e *engine.Engine) HTTPServer {
	r := gin.Default()
	r.Use(cors.Default())
	addRouters(r, e)
	s := HTTPServer{routers: r}

	s.srv = &http.Server{
		Addr: fmt.Sprintf("%s:%d",
			config.Conf.HTTPServer.Host,
			config.Conf.HTTPServer.Port),
		Handler: s.routers,
	}
	return s
}

func (s *HTTPServer) Run() {
	logrus.Info("listen addr: ", s.srv.Addr)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("listen: %v", err)
		}
	}()
}

func (s *HTTPServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		logrus.Info("server forced to shutdown:", err)
	}
	logrus.Info("server closed")
}
