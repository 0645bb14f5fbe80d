package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opencaselist/blocksearch/config"
	"github.com/opencaselist/blocksearch/db/kvdb"
	"github.com/opencaselist/blocksearch/db/searchdb"
	"github.com/opencaselist/blocksearch/logger"
	"github.com/opencaselist/blocksearch/services/index"
	"github.com/opencaselist/blocksearch/services/prefix"
	"github.com/opencaselist/blocksearch/services/search"
	"github.com/opencaselist/blocksearch/services/split"
	"github.com/opencaselist/blocksearch/services/transfer"
	"github.com/opencaselist/blocksearch/services/watch"
	"github.com/opencaselist/blocksearch/validation"
)

type server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	kvdb       kvdb.DB
	searchdb   searchdb.DB
	validator  *validation.Validator
	logger     logger.Logger

	indexService    *index.Service
	searchService   *search.Service
	transferService *transfer.Service
	splitService    *split.Service
	prefixService   *prefix.Service
	watchService    *watch.Service
}

func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)

	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger.New(),
	}
	if err := s.setupDependencies(ctx); err != nil {
		return err
	}
	s.setupRouter()
	s.setupHTTPServer()
	s.setupWatcher(ctx)
	s.setupGracefulShutdown(ctx)

	return nil
}

func (s *server) setupDependencies(ctx context.Context) error {
	var err error
	s.kvdb, err = kvdb.New(s.logger, s.cfg)
	if err != nil {
		s.logger.Error("error creating kvDB", "err", err.Error())
		return err
	}
	s.searchdb, err = searchdb.New(s.logger, s.cfg)
	if err != nil {
		s.logger.Error("error creating searchDB", "err", err.Error())
		return err
	}
	s.validator, err = validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		return err
	}

	s.indexService = index.New(ctx, s.logger, s.searchdb, s.kvdb)
	s.prefixService = prefix.New(s.logger, s.kvdb)
	s.searchService = search.New(s.logger, s.searchdb, s.prefixService)
	s.transferService = transfer.New(s.logger)
	s.splitService = split.New(ctx, s.logger, s.kvdb)

	return nil

}

func (s *server) setupRouter() {
	router := newRouter()

	router.Use(loggingMiddleware(s.logger))

	s.setupRoutes(router)

	s.router = router
}

func (s *server) setupHTTPServer() {

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler: s.router.Handler(),
	}
	s.httpServer = httpServer
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()
}

// setupWatcher starts the library watcher when one is configured, so
// edits to library files get picked up without a manual re-index.
func (s *server) setupWatcher(ctx context.Context) {
	if !s.cfg.GetWatchEnabled() {
		return
	}
	root := s.cfg.GetLibraryRoot()
	if root == "" {
		s.logger.Warn("watching is enabled but no library root is configured")
		return
	}

	watchService, err := watch.New(s.logger, s.indexService, root)
	if err != nil {
		s.logger.Error("error creating library watcher", "err", err.Error())
		return
	}
	s.watchService = watchService
	go s.watchService.Run(ctx)
}

func (s *server) setupGracefulShutdown(ctx context.Context) {

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		s.logger.Info("starting to shut down http server")
		shutdownCtx := context.Background()
		shutdownCtx, cancel := context.WithTimeout(shutdownCtx, 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error shutting down http server", "err", err)
		} else {
			s.logger.Info("shut down http server successfully")
		}
		s.kvdb.Close()
		s.searchdb.Close()
	}()

	wg.Wait()
}
