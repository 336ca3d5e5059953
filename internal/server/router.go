package server

import (
	"net/http"

	"github.com/falube/certificaciones/auth"
	"github.com/falube/certificaciones/httpx"
	"github.com/falube/certificaciones/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

// New construye el handler raíz con todas las rutas y middlewares. El armado
// replica el montaje del backend original: todo bajo /api, lecturas abiertas a
// cualquier rol autenticado, escrituras solo para administrador/operador.
func New(db *gorm.DB) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(auth.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	authHandler := handlers.NewAuthHandler(db)
	usuarioHandler := handlers.NewUsuarioHandler(db)
	obraHandler := handlers.NewObraHandler(db)
	pliegoHandler := handlers.NewPliegoHandler(db)
	catalogoHandler := handlers.NewCatalogoHandler(db)
	certHandler := handlers.NewCertificacionHandler(db)
	avanceHandler := handlers.NewAvanceHandler(db)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)

			// el chequeo de superadmin vive en el handler
			r.Post("/usuarios", usuarioHandler.Crear)

			r.Route("/obras", func(r chi.Router) {
				r.Get("/", obraHandler.Listar)
				r.With(auth.RequireWrite).Post("/", obraHandler.Crear)

				r.Route("/{obraId}", func(r chi.Router) {
					r.Get("/", obraHandler.Obtener)
					r.Get("/pliego", pliegoHandler.Listar)
					r.Get("/curva-avance", obraHandler.CurvaAvance)
					r.Get("/avance-items", obraHandler.AvanceItems)
					r.Get("/items-disponible-planificacion", obraHandler.ItemsDisponibles)
					r.Get("/certificaciones", obraHandler.Certificaciones)
					r.Get("/items-certificados", obraHandler.ItemsCertificados)
					r.With(auth.RequireWrite).Post("/planificacion", obraHandler.CrearPlanificacion)
					r.With(auth.RequireWrite).Post("/avances", obraHandler.CrearAvance)
				})
			})

			r.Route("/pliegos/{obraId}", func(r chi.Router) {
				r.Get("/pliego", pliegoHandler.Listar)
				r.With(auth.RequireWrite).Post("/pliego-item", pliegoHandler.Crear)
				r.With(auth.RequireWrite).Put("/pliego-item/{itemId}", pliegoHandler.Actualizar)
				r.With(auth.RequireWrite).Delete("/pliego-item/{itemId}", pliegoHandler.Eliminar)
			})

			r.Route("/catalogo", func(r chi.Router) {
				r.Get("/", catalogoHandler.Listar)
				r.With(auth.RequireWrite).Post("/", catalogoHandler.Crear)
			})

			r.Route("/certificaciones", func(r chi.Router) {
				r.Get("/obras/{obraId}/certificaciones", certHandler.Listar)
				r.With(auth.RequireWrite).Get("/obras/{obraId}/certificaciones/acumulado", certHandler.Acumulado)
				r.With(auth.RequireWrite).Post("/obras/{obraId}/certificaciones", certHandler.Crear)
				r.Get("/{id}/detalle", certHandler.Detalle)
			})

			r.Route("/avanceObra", func(r chi.Router) {
				r.With(auth.RequireWrite).Post("/{obraId}", avanceHandler.Crear)
			})
		})
	})

	return r
}
