package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apikeydomain "github.com/tajirhq/tajir/internal/apikey/domain"
	"github.com/tajirhq/tajir/internal/clock"
	"github.com/tajirhq/tajir/internal/config"
	obsmetrics "github.com/tajirhq/tajir/internal/observability/metrics"
	"github.com/tajirhq/tajir/internal/ratelimit"
	ratedomain "github.com/tajirhq/tajir/internal/rates/domain"
)

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(RequestLogMiddleware(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func RunHTTP(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	schedule     *config.ScheduleHolder
	rateSvc      ratedomain.Service
	rateResolver ratedomain.RateResolver
	apiKeySvc    apikeydomain.Service
	calcLimiter  *ratelimit.CalcLimiter
	metrics      *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Schedule     *config.ScheduleHolder
	RateSvc      ratedomain.Service
	RateResolver ratedomain.RateResolver
	APIKeySvc    apikeydomain.Service
	CalcLimiter  *ratelimit.CalcLimiter `optional:"true"`
	Metrics      *obsmetrics.Metrics    `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		log:          p.Log.Named("server"),
		genID:        p.GenID,
		clock:        p.Clock,
		schedule:     p.Schedule,
		rateSvc:      p.RateSvc,
		rateResolver: p.RateResolver,
		apiKeySvc:    p.APIKeySvc,
		calcLimiter:  p.CalcLimiter,
		metrics:      p.Metrics,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// RegisterAPIRoutes mounts the public calculator surface.
func (s *Server) RegisterAPIRoutes() {
	v1 := s.engine.Group("/v1")

	calculators := v1.Group("/calculators")
	calculators.Use(s.APIKeyAuth())
	calculators.Use(s.CalcRateLimit())
	{
		calculators.POST("/vat", s.CalculateVAT)
		calculators.POST("/import-duty", s.EstimateImportDuty)
		calculators.POST("/storage-fee", s.CalculateStorageFee)
		calculators.POST("/discount", s.SimulateDiscount)
		calculators.POST("/reorder-point", s.CalculateReorderPoint)
	}

	sizes := v1.Group("/sizes")
	{
		sizes.GET("/categories", s.ListSizeCategories)
		sizes.GET("/:category/chart", s.SizeChart)
		sizes.GET("/:category/convert", s.ConvertSize)
		sizes.POST("/recommend", s.RecommendSize)
	}

	shipping := v1.Group("/shipping")
	{
		shipping.GET("/tiers", s.ListShippingTiers)
		shipping.GET("/tiers/match", s.MatchShippingTier)
	}

	v1.GET("/weight/convert", s.ConvertWeight)
	v1.GET("/tools", s.ListTools)
}

// RegisterAdminRoutes mounts the basic-auth admin console API.
func (s *Server) RegisterAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(s.AdminRequired())
	admin.Use(s.AdminOrgScope())
	{
		admin.GET("/rates", s.ListRates)
		admin.POST("/rates", s.CreateRate)
		admin.GET("/rates/:id", s.GetRate)
		admin.PATCH("/rates/:id", s.UpdateRate)
		admin.DELETE("/rates/:id", s.DisableRate)

		admin.GET("/api-keys", s.ListAPIKeys)
		admin.POST("/api-keys", s.CreateAPIKey)
		admin.POST("/api-keys/:key_id/rotate", s.RotateAPIKey)
		admin.DELETE("/api-keys/:key_id", s.RevokeAPIKey)
	}
}
