package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/warunglab/storeapi/internal/store"
)

type productRequest struct {
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Stock      int64   `json:"stock"`
	CategoryID *int64  `json:"category_id"`
}

type productResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	Stock      int64     `json:"stock"`
	CategoryID *int64    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toProductResponse(p *store.Product) productResponse {
	return productResponse{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		Stock:      p.Stock,
		CategoryID: p.CategoryID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (req *productRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	if req.Price < 0 {
		return errors.New("price must not be negative")
	}
	if req.Stock < 0 {
		return errors.New("stock must not be negative")
	}
	return nil
}

// CreateProduct handles POST /products.
func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	p := &store.Product{Name: req.Name, Price: req.Price, Stock: req.Stock, CategoryID: req.CategoryID}
	if err := h.products.Create(r.Context(), p); err != nil {
		h.logger.Error("failed to create product", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create product")
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(p))
}

// ListProducts handles GET /products?skip=&limit=.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)

	products, err := h.products.List(r.Context(), offset, limit)
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetProduct handles GET /products/{id}.
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get product", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

// UpdateProduct handles PUT /products/{id}.
func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get product", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	p.Name = req.Name
	p.Price = req.Price
	p.Stock = req.Stock
	p.CategoryID = req.CategoryID

	if err := h.products.Update(r.Context(), p); err != nil {
		h.logger.Error("failed to update product", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update product")
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

// DeleteProduct handles DELETE /products/{id}.
func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.products.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to delete product", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}
