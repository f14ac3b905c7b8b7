package restapi

import (
	"net/http/pprof"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterOptions toggles optional endpoints.
type RouterOptions struct {
	EnablePprof bool
}

// SetupRouter builds the gin engine with middleware and all routes.
func SetupRouter(portfolioHandler *PortfolioHandler, logger *zap.Logger, opts RouterOptions) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	router.Use(ZapLoggerMiddleware(logger))
	router.Use(MetricsMiddleware())
	router.Use(gin.Recovery())

	router.GET("/portfolio/:address", portfolioHandler.GetPortfolioHandler)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/portfolio/:address", portfolioHandler.GetPortfolioHandler)
	}

	router.GET("/healthz", HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if opts.EnablePprof {
		pprofRouter := router.Group("/debug/pprof")
		{
			pprofRouter.GET("/", gin.WrapF(pprof.Index))
			pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
			pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
			pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
			pprofRouter.POST("/symbol", gin.WrapF(pprof.Symbol))
			pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
			pprofRouter.GET("/:profile", func(c *gin.Context) {
				pprof.Handler(c.Param("profile")).ServeHTTP(c.Writer, c.Request)
			})
		}
	}

	return router
}
