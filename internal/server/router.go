package server

import "github.com/go-chi/chi/v5"

// SetupRoutes configures all routes for the API server.
func SetupRoutes(router chi.Router, h *Handlers) {
	router.Get("/", h.Root)
	router.Get("/healthz", h.Health)

	router.Route("/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/", h.ListUsers)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
		r.Post("/{id}/verify-password", h.VerifyUserPassword)
	})

	router.Route("/products", func(r chi.Router) {
		r.Post("/", h.CreateProduct)
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})
}
