package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/focusbuddy/backend/internal/handlers"
	mwauth "github.com/focusbuddy/backend/internal/middleware/auth"
)

type Deps struct {
	Gate          *mwauth.Gate
	AuthHandler   *handlers.AuthHandler
	TaskHandler   *handlers.TaskHandler
	HabitHandler  *handlers.HabitHandler
	UserHandler   *handlers.UserHandler
	SearchHandler *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1", d.Gate.Middleware)

	auth := v1.Group("/auth")
	auth.POST("/signup", d.AuthHandler.Signup)
	auth.POST("/signin", d.AuthHandler.Signin)
	auth.POST("/refresh", d.AuthHandler.RefreshToken)
	auth.POST("/logout", d.AuthHandler.Logout)

	tasks := v1.Group("/tasks", mwauth.RequireLogin)
	tasks.GET("", d.TaskHandler.GetTasks)
	tasks.GET("/current", d.TaskHandler.GetCurrent)
	tasks.GET("/planned", d.TaskHandler.GetPlanned)
	tasks.GET("/tomorrow", d.TaskHandler.GetTomorrow)
	tasks.GET("/completed", d.TaskHandler.GetCompleted)
	tasks.POST("/current", d.TaskHandler.CreateCurrent)
	tasks.POST("/planned", d.TaskHandler.CreatePlanned)
	tasks.PUT("/update/:id", d.TaskHandler.UpdateTask)
	tasks.PUT("/:id/complete", d.TaskHandler.CompleteTask)
	tasks.DELETE("/delete/:id", d.TaskHandler.DeleteTask)

	habits := v1.Group("/habits", mwauth.RequireLogin)
	habits.GET("", d.HabitHandler.GetHabits)
	habits.GET("/good", d.HabitHandler.GetGood)
	habits.GET("/bad", d.HabitHandler.GetBad)
	habits.POST("/add", d.HabitHandler.CreateHabit)

	users := v1.Group("/users", mwauth.RequireLogin)
	users.GET("/me", d.UserHandler.Me)
	users.PUT("/update", d.UserHandler.UpdateUser)
	users.GET("/all", d.UserHandler.GetAll, mwauth.AdminOnly)
	users.DELETE("/delete", d.UserHandler.DeleteUser)

	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search, mwauth.RequireLogin)
	}
}
