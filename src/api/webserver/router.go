package webserver

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stake-plus/congressrp/src/config"
	"github.com/stake-plus/congressrp/src/workflow"
)

// New builds the API router. ctx bounds the rate limiter's cleanup loop.
func New(ctx context.Context, cfg config.APIConfig, engine *workflow.Engine) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	attachRoutes(ctx, r, cfg, engine)
	return r
}

func attachRoutes(ctx context.Context, r *gin.Engine, cfg config.APIConfig, engine *workflow.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "If-None-Match"},
		ExposeHeaders:    []string{"Content-Length", "ETag"},
		AllowCredentials: true,
	}))

	rate := cfg.RateLimit
	if rate <= 0 {
		rate = 60
	}
	limiter := NewRateLimiter(ctx, rate, time.Minute)
	secret := []byte(cfg.JWTSecret)

	billsH := NewBills(engine)
	adminH := NewAdmin(engine)

	v1 := r.Group("/v1")
	{
		public := v1.Group("", RateLimitMiddleware(limiter))
		public.GET("/session", billsH.Session)
		public.GET("/bills", billsH.List)
		public.GET("/bills/passed", billsH.Passed)
		public.GET("/bills/failed", billsH.Failed)
		public.GET("/bills/:ref", billsH.Get)
		public.GET("/bills/:ref/ballots", billsH.Ballots)

		secured := v1.Group("", JWTMiddleware(secret), RateLimitMiddleware(limiter))
		secured.POST("/bills", billsH.Create)
		secured.POST("/bills/:ref/cosponsors", billsH.Cosponsor)
		secured.POST("/bills/:ref/ballots", billsH.Cast)
	}

	admin := v1.Group("/admin")
	admin.Use(JWTMiddleware(secret), AdminMiddleware())
	{
		admin.POST("/session/advance", adminH.AdvanceSession)
		admin.POST("/bills/:ref/open", adminH.OpenVote)
		admin.POST("/bills/:ref/close", adminH.CloseVote)
	}
}
