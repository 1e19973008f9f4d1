package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/vendingmachine/internal/server/http/handlers"
	"github.com/polkiloo/vendingmachine/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.VendingFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	machineHandler := handlers.NewMachineHandler(facade)
	operatorHandler := handlers.NewOperatorHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/healthz", healthHandler.Check)

	v1 := engine.Group("/v1")
	machine := v1.Group("/machine/:machine_id")
	machine.GET("/choose_product/:product_code", machineHandler.ChooseProduct)
	machine.POST("/pay_for_product", machineHandler.PayForProduct)

	operator := v1.Group("/operator")
	operator.POST("/register", operatorHandler.Register)
	operator.POST("/login", operatorHandler.Login)

	operatorAuth := operator.Group("/machines/:machine_id")
	operatorAuth.Use(middleware.AuthRequired(facade))
	operatorAuth.GET("", operatorHandler.Machine)
	operatorAuth.GET("/orders/:order_id", operatorHandler.Order)
	operatorAuth.POST("/orders/:order_id/deliver", operatorHandler.DeliverOrder)
	operatorAuth.POST("/orders/:order_id/cancel", operatorHandler.CancelOrder)

	return engine
}
