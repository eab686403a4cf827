package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"taskman/internal/constants"
	"taskman/internal/flash"
	"taskman/internal/middleware"
	"taskman/internal/repository"
	"taskman/internal/secure"
	"taskman/internal/services"
)

// NewRouter wires repositories, services and handlers onto a gin
// engine. The caller supplies the session store (redis in production,
// cookie in tests) and wraps the returned engine with the
// method-override handler before serving.
func NewRouter(store sessions.Store, db *gorm.DB, encryptor *secure.Encryptor) *gin.Engine {
	userRepo := repository.NewUserRepository(db)
	statusRepo := repository.NewStatusRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tagRepo := repository.NewTagRepository(db)

	authService := services.NewAuthService(userRepo, encryptor)
	userService := services.NewUserService(userRepo, encryptor)
	statusService := services.NewStatusService(statusRepo)
	taskService := services.NewTaskService(taskRepo, tagRepo, statusRepo, userRepo)

	sessionHandler := NewSessionHandler(authService)
	userHandler := NewUserHandler(userService, authService)
	statusHandler := NewStatusHandler(statusService)
	taskHandler := NewTaskHandler(taskService, statusService, userService)

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	r.GET("/", func(c *gin.Context) {
		userID, signedIn := middleware.SessionUserID(c)
		c.JSON(http.StatusOK, gin.H{
			"message":   "Task manager is running",
			"signed_in": signedIn,
			"user_id":   userID,
			"flash":     flash.Take(c),
		})
	})

	// Sessions
	r.GET("/sessions/new", sessionHandler.NewSession)
	r.POST("/sessions", sessionHandler.CreateSession)
	r.DELETE("/sessions", sessionHandler.DestroySession)

	// Users: registration is public; per-user routes gate ownership
	// inside the handler, after the 404-producing load.
	r.GET("/users", userHandler.ListUsers)
	r.GET("/users/new", userHandler.NewUser)
	r.POST("/users", userHandler.CreateUser)
	r.GET("/users/:id", userHandler.ShowUser)
	r.GET("/users/:id/edit", userHandler.EditUser)
	r.PATCH("/users/:id", userHandler.UpdateUser)
	r.GET("/users/:id/password/edit", userHandler.EditPassword)
	r.PATCH("/users/:id/password", userHandler.UpdatePassword)
	r.DELETE("/users/:id", userHandler.DeleteUser)

	// Statuses: reads are public; id-less writes sit behind the auth
	// middleware, id-bound writes check the session after the load.
	r.GET("/statuses", statusHandler.ListStatuses)
	r.GET("/statuses/new", statusHandler.NewStatus)
	r.POST("/statuses", middleware.RequireAuth(), statusHandler.CreateStatus)
	r.GET("/statuses/:id/edit", statusHandler.EditStatus)
	r.PATCH("/statuses/:id", statusHandler.UpdateStatus)
	r.DELETE("/statuses/:id", statusHandler.DeleteStatus)

	// Tasks
	r.GET("/tasks", taskHandler.ListTasks)
	r.GET("/tasks/new", taskHandler.NewTask)
	r.POST("/tasks", middleware.RequireAuth(), taskHandler.CreateTask)
	r.GET("/tasks/:id", taskHandler.ShowTask)
	r.GET("/tasks/:id/edit", taskHandler.EditTask)
	r.PATCH("/tasks/:id", taskHandler.UpdateTask)
	r.DELETE("/tasks/:id", taskHandler.DeleteTask)

	return r
}
