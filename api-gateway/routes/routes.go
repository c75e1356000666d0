package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seqhub/preference-service/api-gateway/config"
	"github.com/seqhub/preference-service/api-gateway/middleware"
	"github.com/seqhub/preference-service/api-gateway/proxy"
)

// RouteDefinition maps a gateway path to a backend service
type RouteDefinition struct {
	Method      string
	Path        string
	Service     string
	RequireAuth bool
}

// routeDefinitions lists every route the gateway exposes
var routeDefinitions = []RouteDefinition{
	// Public routes
	{Method: "GET", Path: "/health", Service: "preference", RequireAuth: false},
	{Method: "GET", Path: "/datatypes", Service: "preference", RequireAuth: false},

	// Favorite datatype routes require a valid token
	{Method: "GET", Path: "/users/current/favorite_datatypes", Service: "preference", RequireAuth: true},
	{Method: "POST", Path: "/users/current/favorite_datatypes/:datatype", Service: "preference", RequireAuth: true},
	{Method: "DELETE", Path: "/users/current/favorite_datatypes/:datatype", Service: "preference", RequireAuth: true},
}

// SetupRoutes registers all gateway routes
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig) {
	reverseProxy := proxy.NewReverseProxy(cfg)
	authMiddleware := middleware.AuthMiddleware()

	for _, route := range routeDefinitions {
		handler := proxyHandler(reverseProxy, route.Service)

		if route.RequireAuth {
			app.Add(route.Method, route.Path, authMiddleware, handler)
		} else {
			app.Add(route.Method, route.Path, handler)
		}
	}

	// Gateway's own liveness, does not touch the backend
	app.Get("/gateway/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "api-gateway",
		})
	})
}

func proxyHandler(p *proxy.ReverseProxy, serviceName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return p.ProxyRequest(c, serviceName)
	}
}
