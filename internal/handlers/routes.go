package handlers

import (
	"futspot/internal/auth"
	"futspot/internal/middleware"
	"futspot/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API under api. Everything except /auth needs a
// bearer token.
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup, tokens *auth.TokenManager) {
	player := middleware.RequireRole(models.RolePlayer)
	owner := middleware.RequireRole(models.RoleOwner)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	secured := api.Group("")
	secured.Use(middleware.JWTAuth(tokens))

	reservations := secured.Group("/agendamentos")
	{
		reservations.POST("", player, h.CreateReservation)
		reservations.GET("/me", player, h.MyAgenda)
		reservations.GET("/locador", owner, h.OwnerReservations)
		reservations.DELETE("/:id", h.CancelReservation)
		reservations.PATCH("/:id/confirmar", owner, h.ConfirmReservation)
		reservations.PATCH("/:id/recusar", owner, h.RefuseReservation)
	}

	venues := secured.Group("/locais")
	{
		venues.GET("", owner, h.MyVenues)
		venues.POST("", owner, h.CreateVenue)
		venues.GET("/search", h.SearchVenues)
		venues.GET("/:id", h.GetVenue)
		venues.PUT("/:id", owner, h.UpdateVenue)
		venues.DELETE("/:id", owner, h.DeleteVenue)
		venues.GET("/:id/disponibilidade", h.Availability)
		venues.GET("/:id/disponibilidade/data", h.FreeSlots)
	}

	secured.POST("/avaliacoes", player, h.CreateRating)

	plans := secured.Group("/mensalidades", owner)
	{
		plans.POST("", h.CreateMonthlyPlan)
		plans.GET("/local/:localId", h.VenueMonthlyPlans)
		plans.PATCH("/:id", h.UpdateMonthlyPlan)
		plans.DELETE("/:id", h.DeleteMonthlyPlan)
	}

	notifications := secured.Group("/notificacoes")
	{
		notifications.GET("", h.ListNotifications)
		notifications.GET("/nao-lidas-numero", h.UnreadCount)
		notifications.PATCH("/marcar-todas", h.MarkAllNotificationsRead)
		notifications.PATCH("/:id/marcar-como-lida", h.MarkNotificationRead)
	}

	users := secured.Group("/users/me")
	{
		users.GET("", h.Me)
		users.PATCH("", h.UpdateMe)
		users.GET("/stats", h.MyStats)
		users.POST("/foto", h.UploadProfilePhoto)
	}

	owners := secured.Group("/locadores", owner)
	{
		owners.GET("/me/ocupacao", h.Occupancy)
		owners.GET("/jogador/:jogadorId/stats", h.PlayerStatsForOwner)
	}

	secured.POST("/uploads/locais/:id/fotos", owner, h.UploadVenuePhoto)
}
