package routes

import (
	"github.com/ecell-auctions/auction-system/handlers"
	"github.com/ecell-auctions/auction-system/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	dashboardHandler *handlers.DashboardHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Team-Secret"},
	}))
	router.Use(middleware.Authenticate(jwtSecret))

	router.Post("/auth/login", authHandler.Login)

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.ListTeams)
		// Roster reads are secret-gated inside the handler, admin bypasses.
		r.Get("/{teamName}/roster", teamHandler.GetRoster)
		r.Get("/{teamName}/summary", teamHandler.GetSquadSummary)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/", teamHandler.CreateTeam)
			r.Delete("/", teamHandler.WipeAll)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.ListPlayers)
		r.Get("/unsold", dashboardHandler.GetUnsoldPlayers)
		r.Get("/search", playerHandler.SearchPlayer)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/", playerHandler.AddPlayer)
			r.Put("/{playerID}", playerHandler.ModifyPlayer)
			r.Delete("/{playerID}", playerHandler.DeletePlayer)
		})
	})

	router.Get("/rankings", dashboardHandler.GetRankings)
	router.Get("/feed/ticker", dashboardHandler.GetTicker)
	router.Get("/ws/feed", webSocketHandler.ServeFeed)
}
