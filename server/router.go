package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/exvulsec/harpoon/engine"
)

func addRouters(r gin.IRouter, e *engine.Engine) {
	addHealthRouter(r)
	apiV1 := setV1Group(r)
	apiV1.GET("/engine/stats", func(context *gin.Context) {
		context.JSON(http.StatusOK, e.Stats())
	})
}

func setV1Group(r gin.IRouter) gin.IRouter {
	return r.Group("/api/v1")
}

func addHealthRouter(r gin.IRouter) {
	r.GET("/health", func(context *gin.Context) {
		context.JSON(http.StatusOK, fmt.Sprintf("running on %v", time.Now()))
	})
}
