package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/wardrobe/internal/api/handlers"
	"github.com/your-org/wardrobe/internal/storage"
)

type RouterConfig struct {
	DB       *storage.PostgresStore
	Blobs    storage.BlobStore
	Pipeline handlers.ItemCreator
	// Readiness checks by dependency name; nil entries are skipped.
	Checks map[string]handlers.Pinger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.Default())

	// System endpoints
	systemH := handlers.NewSystemHandler(cfg.Checks)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")

	// Items
	itemH := handlers.NewItemHandler(cfg.DB)
	v1.POST("/items", itemH.Create)
	v1.GET("/items", itemH.List)
	v1.GET("/items/:id", itemH.Get)
	v1.PATCH("/items/:id", itemH.Update)
	v1.DELETE("/items/:id", itemH.Delete)

	// Recognition workflow
	recognizeH := handlers.NewRecognizeHandler(cfg.Pipeline)
	v1.POST("/items/recognize", recognizeH.RecognizeAndCreate)

	// Item images
	imageH := handlers.NewImageHandler(cfg.DB, cfg.Blobs)
	v1.POST("/items/:id/images", imageH.Create)
	v1.GET("/items/:id/images", imageH.ListByItem)
	v1.POST("/items/:id/images/:imageId/primary", imageH.SetPrimary)
	v1.GET("/item_images/:imageId", imageH.Get)
	v1.PATCH("/item_images/:imageId", imageH.Update)
	v1.DELETE("/item_images/:imageId", imageH.Delete)

	return r
}
