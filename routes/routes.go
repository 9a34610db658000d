package routes

import (
	"healthtracker/controllers"
	"healthtracker/middlewares"
	"healthtracker/services"
	"healthtracker/views"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the services the router hands to its controllers.
type Deps struct {
	Records    *services.HealthRecordService
	Exports    *services.ExportService
	RT         *services.RealtimeHub
	Log        *zap.Logger
	CORSOrigin string

	// Registry receives the HTTP metrics; nil uses a private registry.
	Registry *prometheus.Registry
}

func SetupRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.RT == nil {
		d.RT = services.NewRealtimeHub()
	}
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
	}

	r := gin.New()
	r.Use(middlewares.Recovery(d.Log), middlewares.RequestLogger(d.Log))
	r.Use(corsMiddleware(d.CORSOrigin))

	metrics := middlewares.NewMetrics(d.Registry)
	r.Use(metrics.Handler())

	r.SetHTMLTemplate(views.Templates())
	r.StaticFS("/static", views.Static())

	records := controllers.NewHealthRecordController(d.Records, d.Log)
	dashboard := controllers.NewDashboardController(d.Records, d.Log)
	realtime := controllers.NewRealtimeController(d.RT, d.Log)
	exports := controllers.NewExportController(d.Exports, d.Log)
	system := controllers.NewSystemController(d.Records, d.Log)

	r.GET("/", dashboard.Dashboard)
	r.GET("/healthz", system.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	r.GET("/ws/records", realtime.RecordsWS)

	api := r.Group("/api")
	{
		api.GET("", system.Welcome)
		api.POST("/exports", exports.CreateExport)

		hr := api.Group("/health-records")
		hr.GET("", records.GetHealthRecords)
		hr.POST("", records.CreateHealthRecord)
		hr.GET("/:id", records.GetHealthRecordByID)
		hr.PUT("/:id", records.UpdateHealthRecord)
		hr.DELETE("/:id", records.DeleteHealthRecord)
	}

	r.NoRoute(controllers.NotFound)

	return r
}

func corsMiddleware(origin string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if origin == "" || origin == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{origin}
	}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	return cors.New(cfg)
}
