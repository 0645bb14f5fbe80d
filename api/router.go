package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencaselist/blocksearch/api/handlers"
)

func (s *server) setupRoutes(router *gin.Engine) {
	router.GET("/health", health())

	handlers.SetupIndex(router, s.logger, s.indexService, s.validator)
	handlers.SetupSearch(router, s.logger, s.searchService, s.validator)
	handlers.SetupDocuments(router, s.logger, s.searchService, s.validator)
	handlers.SetupTransfer(router, s.logger, s.cfg, s.transferService, s.validator)
	handlers.SetupSplit(router, s.logger, s.cfg, s.splitService, s.validator)
	handlers.SetupPrefixes(router, s.logger, s.prefixService, s.validator)
}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter() *gin.Engine {
	router := gin.Default()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())

	return router
}
