package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"task-api/config"
	"task-api/models"
	"task-api/utils"
)

// TaskStore is the persistence the handlers depend on. *utils.TaskStore
// satisfies it.
type TaskStore interface {
	List(ctx context.Context) ([]models.Task, error)
	Get(ctx context.Context, id int64) (models.Task, error)
	Create(ctx context.Context, title string, description *string, completed *bool) (models.Task, error)
	Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

// Server is the fully wired HTTP service.
type Server struct {
	engine     *gin.Engine
	store      TaskStore
	metrics    *metrics
	closeStore func() error
}

// New opens the store named by cfg and wires every route onto it. The
// returned Server owns the store; call Close when done.
func New(cfg config.Config) (*Server, error) {
	databaseURL := cfg.DatabaseURL
	if databaseURL == "" && cfg.Testing {
		databaseURL = utils.MemoryDatabaseURL
	}

	store, err := utils.Open(context.Background(), databaseURL)
	if err != nil {
		return nil, err
	}

	srv := NewWithStore(store, cfg)
	srv.closeStore = store.Close
	return srv, nil
}

// NewWithStore wires the routes onto a store owned by the caller.
func NewWithStore(store TaskStore, cfg config.Config) *Server {
	srv := &Server{
		engine:  gin.New(),
		store:   store,
		metrics: newMetrics(),
	}

	r := srv.engine
	r.HandleMethodNotAllowed = true

	r.Use(requestID())
	if !cfg.Testing {
		r.Use(accessLog())
	}
	r.Use(srv.metrics.instrument(), recovery())

	r.NoRoute(notFound)
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	r.GET("/health", srv.health)
	r.GET("/ready", srv.ready)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(srv.metrics.registry, promhttp.HandlerOpts{})))

	api := r.Group("/api/tasks")
	api.GET("", srv.listTasks)
	api.POST("", srv.createTask)
	api.GET("/:id", srv.getTask)
	api.PUT("/:id", srv.updateTask)
	api.DELETE("/:id", srv.deleteTask)

	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// Close releases the store when the Server opened it.
func (s *Server) Close() error {
	if s.closeStore == nil {
		return nil
	}
	return s.closeStore()
}
