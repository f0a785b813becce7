package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/remotewater/internal/database"
	"github.com/chrissnell/remotewater/internal/log"
	"github.com/chrissnell/remotewater/internal/regenerate"
	"github.com/chrissnell/remotewater/pkg/config"
	"github.com/chrissnell/remotewater/pkg/cwqi"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Analyzer scores rows and samples.
type Analyzer interface {
	Analyze(rows []cwqi.RawParameterRow) cwqi.SampleAnalysis
	AnalyzeSample(ctx context.Context, sampleNumber string) (cwqi.SampleAnalysis, error)
	ScoreSample(ctx context.Context, sampleNumber string) (*database.ReportScore, error)
	LatestScores(ctx context.Context, sampleNumber string) (*database.ReportScore, error)
}

// Regenerator runs batch rescoring.
type Regenerator interface {
	RunSince(ctx context.Context, lookback time.Duration) (*regenerate.Summary, error)
}

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies are the services the REST API is served from. Analysis is required;
// without Regenerator the regenerate endpoint answers 503, and without DB the health
// check reports the database as disabled.
type Dependencies struct {
	Analysis        Analyzer
	Regenerator     Regenerator
	DB              Pinger
	DefaultLookback time.Duration
}

// Controller represents the REST server controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	restConfig config.RESTServerData
	Server     http.Server
	deps       Dependencies
	logger     *zap.SugaredLogger
	handlers   *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, rc config.RESTServerData, deps Dependencies, logger *zap.SugaredLogger) (*Controller, error) {
	if deps.Analysis == nil {
		return nil, fmt.Errorf("REST server requires an analysis service")
	}
	if deps.DefaultLookback <= 0 {
		deps.DefaultLookback = config.DefaultRegenerationLookback
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	// If a ListenAddr was not provided, listen on all interfaces
	if rc.ListenAddr == "" {
		logger.Info("rest.listen_addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		rc.ListenAddr = "0.0.0.0"
	}

	// Set default HTTP port if not specified
	if rc.Port == 0 {
		logger.Info("rest.port not provided; defaulting to 8080")
		rc.Port = 8080
	}

	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		restConfig: rc,
		deps:       deps,
		logger:     logger,
	}
	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", rc.ListenAddr, rc.Port)
	ctrl.Server.Handler = ctrl.setupRouter()
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Infof("Starting REST server controller on %s...", c.Server.Addr)
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if c.restConfig.Cert != "" && c.restConfig.Key != "" {
			if err := c.Server.ListenAndServeTLS(c.restConfig.Cert, c.restConfig.Key); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(c.loggingMiddleware)
	router.Use(c.corsMiddleware)

	router.HandleFunc("/healthz", c.handlers.GetHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/analyze", c.handlers.PostAnalyze).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/samples/{sample}/analysis", c.handlers.GetSampleAnalysis).Methods(http.MethodGet)
	api.HandleFunc("/samples/{sample}/scores", c.handlers.PostSampleScores).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/samples/{sample}/scores", c.handlers.GetSampleScores).Methods(http.MethodGet)
	api.HandleFunc("/regenerate", c.handlers.PostRegenerate).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/ratings", c.handlers.GetRatings).Methods(http.MethodGet)

	return router
}

// statusRecorder captures the status code and size written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// loggingMiddleware logs every request except health checks
func (c *Controller) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if r.URL.Path != "/healthz" {
			log.LogHTTPRequest(r.Method, r.RequestURI, rec.status, time.Since(start), rec.size, r.RemoteAddr, r.UserAgent(), nil)
		}
	})
}

// corsMiddleware adds CORS headers
func (c *Controller) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
