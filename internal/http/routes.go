package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "task-tracker.com/task-tracker/internal/http/middlewares"
	"task-tracker.com/task-tracker/internal/services"
)

func Register(
	e *echo.Echo,
	auth *AuthHandler,
	tasks *TaskHandler,
	authService *services.AuthService,
	rateLimitPerMinute int,
) {
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	api := e.Group("/api/v1")

	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)

	authed := api.Group("", middleware.Authenticate(authService))
	authed.GET("/auth/info", auth.Info)
	authed.POST("/auth/logout", auth.Logout)

	authed.POST("/tasks", tasks.Create)
	authed.GET("/tasks", tasks.List)
	authed.GET("/tasks/:id", tasks.Get)
	authed.PATCH("/tasks/:id", tasks.Update)
	authed.DELETE("/tasks/:id", tasks.Delete)
	authed.POST("/tasks/:id/assign/:userId", tasks.Assign)
	authed.POST("/tasks/:id/watch", tasks.Watch)
	authed.DELETE("/tasks/:id/watch", tasks.Unwatch)
}
