package routes

import (
	"net/http"

	"github.com/Dosada05/league-system/docs"
	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Auth,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	matchHandler *handlers.MatchHandler,
	standingHandler *handlers.StandingHandler,
	notificationHandler *handlers.NotificationHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Документация API
	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(docs.SwaggerJSON)
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/teams", func(r chi.Router) {
		// Публичные маршруты для просмотра
		r.Get("/", teamHandler.ListTeams)
		r.Get("/{teamID}", teamHandler.GetTeam)
		r.Get("/{teamID}/players", teamHandler.ListRoster)

		// Защищённые маршруты только для администраторов лиги
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.RequireRole("admin"))

			r.Post("/", teamHandler.CreateTeam)
			r.Put("/{teamID}", teamHandler.UpdateTeam)
			r.Delete("/{teamID}", teamHandler.DeleteTeam)
			r.Post("/{teamID}/logo", teamHandler.UploadLogo)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/{playerID}", playerHandler.GetPlayer)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.RequireRole("admin"))

			r.Post("/", playerHandler.CreatePlayer)
			r.Put("/{playerID}", playerHandler.UpdatePlayer)
			r.Delete("/{playerID}", playerHandler.DeletePlayer)
			r.Post("/{playerID}/photo", playerHandler.UploadPhoto)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/", matchHandler.ListMatches)
		r.Get("/{matchID}", matchHandler.GetMatch)
		r.Get("/{matchID}/result", matchHandler.GetMatchResult)
		r.Get("/{matchID}/frames", matchHandler.ListFrames)
		r.Get("/{matchID}/lineup", matchHandler.ListLineup)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.RequireRole("admin"))

			r.Post("/", matchHandler.ScheduleMatch)
			r.Post("/{matchID}/result", matchHandler.SubmitResult)
			r.Post("/{matchID}/reset", matchHandler.ResetMatch)
			r.Post("/{matchID}/frames", matchHandler.RecordFrame)
			r.Post("/{matchID}/lineup", matchHandler.SetLineupEntry)
		})
	})

	router.Get("/standings", standingHandler.GetStandings)

	router.Route("/admin", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.RequireRole("admin"))

		r.Get("/inconsistencies", standingHandler.ListInconsistencies)
		r.Post("/reconcile", standingHandler.ReconcileAll)
		r.Post("/notifications", notificationHandler.Create)
	})

	router.Route("/notifications", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Get("/", notificationHandler.ListMy)
		r.Post("/{notificationID}/read", notificationHandler.MarkAsRead)
		r.Post("/read-all", notificationHandler.MarkAllAsRead)
	})

	router.Get("/ws/divisions/{division}", webSocketHandler.ServeWs)
}
