package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/edustack/portal/internal/app/controllers"
	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/middleware"
)

// SetupRouter configures all application routes. Role and tenant checks
// live in the services behind the permission table; the route table only
// distinguishes public from authenticated.
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	collegeController *controllers.CollegeController,
	registryController *controllers.RegistryController,
	syllabusController *controllers.SyllabusController,
	noteController *controllers.NoteController,
	verificationController *controllers.VerificationController,
	activityController *controllers.ActivityController,
	dashboardController *controllers.DashboardController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register/student", authController.RegisterStudent)
		auth.POST("/register/teacher", authController.RegisterTeacher)
		auth.POST("/register/admin", authController.RegisterAdmin)
		auth.POST("/register/super-admin", authController.RegisterSuperAdmin)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
		auth.POST("/logout", authController.Logout)
	}

	// College code lookup backs the registration form.
	v1.GET("/colleges/:id", collegeController.Get)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)

		colleges := authenticated.Group("/colleges")
		{
			colleges.POST("", collegeController.Create)
			colleges.GET("", collegeController.List)
			colleges.PUT("/:id", collegeController.Update)
			colleges.DELETE("/:id", collegeController.Delete)

			// Student registry, scoped per college.
			colleges.POST("/:id/registry", registryController.Add)
			colleges.POST("/:id/registry/import", registryController.Import)
			colleges.GET("/:id/registry", registryController.List)
		}

		courses := authenticated.Group("/courses")
		{
			courses.POST("", syllabusController.CreateCourse)
			courses.GET("", syllabusController.ListCourses)
			courses.PUT("/:id", syllabusController.UpdateCourse)
			courses.DELETE("/:id", syllabusController.DeleteCourse)
			courses.POST("/:id/semesters", syllabusController.CreateSemester)
			courses.GET("/:id/semesters", syllabusController.ListSemesters)
		}

		semesters := authenticated.Group("/semesters")
		{
			semesters.PUT("/:id", syllabusController.UpdateSemester)
			semesters.DELETE("/:id", syllabusController.DeleteSemester)
			semesters.POST("/:id/subjects", syllabusController.CreateSubject)
			semesters.GET("/:id/subjects", syllabusController.ListSubjects)
		}

		subjects := authenticated.Group("/subjects")
		{
			subjects.PUT("/:id", syllabusController.UpdateSubject)
			subjects.DELETE("/:id", syllabusController.DeleteSubject)
			subjects.POST("/:id/units", syllabusController.CreateUnit)
			subjects.GET("/:id/units", syllabusController.ListUnits)
		}

		units := authenticated.Group("/units")
		{
			units.PUT("/:id", syllabusController.UpdateUnit)
			units.DELETE("/:id", syllabusController.DeleteUnit)
			units.POST("/:id/topics", syllabusController.CreateTopic)
			units.GET("/:id/topics", syllabusController.ListTopics)
		}

		topics := authenticated.Group("/topics")
		{
			topics.PUT("/:id", syllabusController.UpdateTopic)
			topics.DELETE("/:id", syllabusController.DeleteTopic)
		}

		notes := authenticated.Group("/notes")
		{
			notes.POST("", noteController.Upload)
			notes.GET("", noteController.List)
			notes.GET("/pending", noteController.Pending)
			notes.GET("/:id/access", noteController.Access)
			notes.GET("/:id/download", noteController.Download)
			notes.GET("/:id/view", noteController.View)
			notes.PUT("/:id", noteController.UpdateTitle)
			notes.DELETE("/:id", noteController.Delete)
		}

		verification := authenticated.Group("/verification")
		{
			verification.GET("/users/pending", verificationController.PendingUsers)
			verification.POST("/users/:id/approve", verificationController.ApproveUser)
			verification.POST("/users/:id/reject", verificationController.RejectUser)
			verification.DELETE("/users/:id", verificationController.RemoveUser)
			verification.POST("/notes/:id/approve", verificationController.ApproveNote)
			verification.POST("/notes/:id/reject", verificationController.RejectNote)
		}

		activity := authenticated.Group("/activity")
		{
			activity.GET("/me", activityController.MyActivity)
			activity.GET("/users/:id", activityController.UserActivity)
			activity.GET("/users/:id/report", activityController.UserActivityReport)
			activity.GET("/roles/:role", activityController.RoleActivity)
			activity.GET("/roles/:role/report", activityController.RoleActivityReport)
		}

		dashboards := authenticated.Group("/dashboards")
		{
			dashboards.GET("/admin", dashboardController.Admin)
			dashboards.GET("/super-admin", dashboardController.SuperAdmin)
			dashboards.GET("/teacher", dashboardController.Teacher)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
