package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-calendar/internal/audit"
	"github.com/BruksfildServices01/salon-calendar/internal/calendar"
	domain "github.com/BruksfildServices01/salon-calendar/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-calendar/internal/handlers"
	infraRepo "github.com/BruksfildServices01/salon-calendar/internal/infra/repository"
	"github.com/BruksfildServices01/salon-calendar/internal/middleware"
	"github.com/BruksfildServices01/salon-calendar/internal/session"
	"github.com/BruksfildServices01/salon-calendar/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/salon-calendar/internal/usecase/appointment"
	ucSession "github.com/BruksfildServices01/salon-calendar/internal/usecase/session"
)

// Deps são os singletons montados no main.
type Deps struct {
	DB        *gorm.DB // opcional: sem banco não há /api/activity
	Sessions  *session.Manager
	Gateway   domain.Gateway
	Lifecycle *ucSession.Lifecycle
	Board     *calendar.Board
	Live      *calendar.Live
	Audit     *audit.Dispatcher
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// USE CASES (APPOINTMENTS)
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		d.Gateway,
		d.Audit,
	)

	updateAppointmentUC := ucAppointment.NewUpdateAppointment(
		d.Gateway,
		d.Audit,
	)

	getAvailabilityUC := ucAppointment.NewGetAvailability(
		d.Gateway,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(
		d.Gateway,
	)

	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(
		d.Gateway,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.Lifecycle)
	meHandler := handlers.NewMeHandler(d.Sessions, d.Live.Tenant)

	calendarHandler := handlers.NewCalendarHandler(d.Board, timezone.Now)
	availabilityHandler := handlers.NewAvailabilityHandler(getAvailabilityUC, d.Gateway)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		updateAppointmentUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
		d.Board,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		// ------------------------------
		// API COM SESSÃO
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.SessionRequired(d.Sessions))
		{
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// CALENDÁRIO (estado ao vivo)
			// ------------------------------
			secured.GET("/calendar", calendarHandler.List)
			secured.GET("/calendar/stream", calendarHandler.Stream)
			secured.GET("/calendar.ics", calendarHandler.ExportICS)

			// ------------------------------
			// FORMULÁRIO
			// ------------------------------
			secured.GET("/services", availabilityHandler.ListServices)
			secured.GET("/availability/slots", availabilityHandler.Slots)
			secured.GET("/availability/stylists", availabilityHandler.Stylists)

			secured.POST("/appointments", appointmentHandler.Create)
			secured.PUT("/appointments/:id", appointmentHandler.Update)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)

			if d.DB != nil {
				activityHandler := handlers.NewActivityHandler(infraRepo.NewActivityGormRepository(d.DB))
				secured.GET("/activity", activityHandler.List)
			}
		}
	}
}
