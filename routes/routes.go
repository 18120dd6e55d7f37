package routes

import (
	"net/http"

	"github.com/Hariom00027/hackathon-system/handlers"
	"github.com/Hariom00027/hackathon-system/middleware"
	"github.com/Hariom00027/hackathon-system/models"
	"github.com/Hariom00027/hackathon-system/services"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRoutes собирает весь HTTP-интерфейс: публичные маршруты
// просмотра, защищённые группы заявителей и индустрии, websocket и
// загрузки файлов.
func SetupRoutes(
	router *chi.Mux,
	authService services.AuthService,
	authHandler *handlers.AuthHandler,
	hackathonHandler *handlers.HackathonHandler,
	applicationHandler *handlers.ApplicationHandler,
	uploadHandler *handlers.UploadHandler,
	webSocketHandler *handlers.WebSocketHandler,
	allowedOrigins []string,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(authService)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Post("/users/signup", authHandler.SignUp)
	router.Post("/users/signin", authHandler.SignIn)

	router.Get("/ws/hackathons/{hackathonID}", webSocketHandler.ServeWs)

	router.Route("/hackathons", func(r chi.Router) {
		// Публичные маршруты просмотра хакатонов и результатов.
		r.Get("/", hackathonHandler.List)
		r.Get("/{hackathonID}", hackathonHandler.GetByID)
		r.Get("/{hackathonID}/results", hackathonHandler.Results)

		// Маршруты индустрии: создание и сопровождение хакатонов.
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.Authorize(models.RoleIndustry))

			r.Post("/", hackathonHandler.Create)
			r.Get("/my", hackathonHandler.ListMine)
			r.Put("/{hackathonID}", hackathonHandler.Update)
			r.Delete("/{hackathonID}", hackathonHandler.Delete)
			r.Post("/{hackathonID}/finalize", hackathonHandler.Finalize)
			r.Get("/{hackathonID}/applications", applicationHandler.GetByHackathon)
			r.Post("/{hackathonID}/certificate-assets", uploadHandler.UploadCertificateAsset)
		})

		// Маршруты заявителя.
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.Authorize(models.RoleApplicant))

			r.Post("/{hackathonID}/apply", applicationHandler.Apply)
			r.Get("/{hackathonID}/results/my", hackathonHandler.MyResult)
		})
	})

	router.Route("/applications", func(r chi.Router) {
		r.Use(authenticate)

		// Доступ по владению проверяют сервисы: заявитель видит свои
		// заявки, индустрия — заявки своих хакатонов.
		r.Get("/{applicationID}", applicationHandler.GetDetails)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(models.RoleApplicant))

			r.Get("/my", applicationHandler.GetMyApplications)
			r.Post("/{applicationID}/phases/{phaseID}/submissions", applicationHandler.SubmitPhase)
			r.Post("/{applicationID}/phases/{phaseID}/artifact", uploadHandler.UploadSubmissionArtifact)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(models.RoleIndustry))

			r.Delete("/{applicationID}", applicationHandler.Delete)
			r.Put("/{applicationID}/phases/{phaseID}/review", applicationHandler.ReviewPhase)
			r.Post("/{applicationID}/phases/{phaseID}/reupload-request", applicationHandler.RequestReupload)
			r.Post("/{applicationID}/reject", applicationHandler.Reject)
			r.Put("/{applicationID}/rank", applicationHandler.UpdateRank)
			r.Put("/{applicationID}/score", applicationHandler.SetTotalScore)
			r.Post("/{applicationID}/showcase", applicationHandler.PublishShowcase)
		})
	})
}
