package routes

import (
	"net/http"

	"github.com/murmurlabs/murmur/internal/app"
	"github.com/murmurlabs/murmur/internal/handler"
	"github.com/murmurlabs/murmur/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.ProfileService)
	session := handler.NewSessionHandler(app.AccessService)
	record := handler.NewRecordHandler(app.RecordingService)
	journal := handler.NewJournalHandler(app.JournalService)
	tasks := handler.NewTaskHandler(app.JournalService)
	summary := handler.NewSummaryHandler(app.SummaryService, app.EmailService)
	account := handler.NewAccountHandler(app.ProfileService)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Auth endpoints (rate limited, no token required)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /api/auth/signup", rateLimiter(auth.Signup))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))

	// Everything else under /api requires a bearer token
	api := http.NewServeMux()

	api.HandleFunc("GET /api/session", session.Status)
	api.HandleFunc("POST /api/record", record.Record)

	api.HandleFunc("GET /api/entries", journal.List)
	api.HandleFunc("DELETE /api/entries", journal.Clear)
	api.HandleFunc("GET /api/entries/latest", journal.Latest)
	api.HandleFunc("GET /api/entries/favorites", journal.Favorites)
	api.HandleFunc("GET /api/entries/{id}", journal.Get)
	api.HandleFunc("PATCH /api/entries/{id}", journal.Update)
	api.HandleFunc("DELETE /api/entries/{id}", journal.Delete)
	api.HandleFunc("POST /api/entries/{id}/favorite", journal.ToggleFavorite)

	api.HandleFunc("POST /api/entries/{id}/tasks", tasks.Add)
	api.HandleFunc("POST /api/entries/{id}/tasks/{taskId}/toggle", tasks.Toggle)
	api.HandleFunc("PATCH /api/entries/{id}/tasks/{taskId}", tasks.Update)
	api.HandleFunc("DELETE /api/entries/{id}/tasks/{taskId}", tasks.Remove)
	api.HandleFunc("GET /api/tasks/pending", tasks.Pending)
	api.HandleFunc("GET /api/tasks/stats", tasks.Stats)

	api.HandleFunc("GET /api/streak", journal.Streak)

	api.HandleFunc("GET /api/summary/weekly", summary.Weekly)
	api.HandleFunc("POST /api/summary/weekly/shown", summary.MarkShown)
	api.HandleFunc("GET /api/summary/history", summary.History)

	api.HandleFunc("GET /api/account", account.Get)
	api.HandleFunc("PATCH /api/account", account.Update)
	api.HandleFunc("POST /api/account/premium", account.SetPremium)

	requireAuth := middleware.RequireAuth(app.AuthService, app.UserRepository, app.ProfileRepository)
	mux.Handle("/api/", requireAuth(api))

	return middleware.Chain(mux,
		middleware.RequestLogging,
	)
}
