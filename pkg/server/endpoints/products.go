package endpoints

import (
	"log/slog"
	"net/http"

	"github.com/doodlesbykumbi/toggler/pkg/server"
	"github.com/doodlesbykumbi/toggler/pkg/server/store"
)

type productRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" validate:"required,notblank"`
	Owner       string  `json:"owner" validate:"required,notblank"`
	Description *string `json:"description"`
}

func (req productRequest) input() store.ProductInput {
	return store.ProductInput{Name: req.Name, Owner: req.Owner, Description: req.Description}
}

func RegisterProductsEndpoints(s *server.Server) {
	productsStore := s.ProductsStore
	log := s.Logger

	for _, router := range s.Routers() {
		router.HandleFunc("/products", handleListProducts(productsStore, log)).Methods("GET")
		router.HandleFunc("/products", handleCreateProduct(productsStore, log)).Methods("POST")
		router.HandleFunc("/products", handleUpdateProduct(productsStore, log)).Methods("PUT")
		router.HandleFunc("/products", handleDeleteProduct(productsStore, log)).Methods("DELETE")
	}
}

func handleListProducts(productsStore store.ProductsStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := productsStore.ListProducts(r.Context())
		if err != nil {
			respondWithStoreError(w, r, log, err, "Failed to fetch products")
			return
		}
		respondWithJSON(w, http.StatusOK, products)
	}
}

func handleCreateProduct(productsStore store.ProductsStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if respondIfInvalid(w, validationMessages(req)) {
			return
		}

		product, err := productsStore.CreateProduct(r.Context(), req.input())
		if err != nil {
			respondWithStoreError(w, r, log, err, "Failed to create product")
			return
		}
		respondWithJSON(w, http.StatusCreated, product)
	}
}

func handleUpdateProduct(productsStore store.ProductsStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if respondIfInvalid(w, requireID(req.ID, validationMessages(req))) {
			return
		}

		product, err := productsStore.UpdateProduct(r.Context(), req.ID, req.input())
		if err != nil {
			respondWithStoreError(w, r, log, err, "Failed to update product")
			return
		}
		respondWithJSON(w, http.StatusOK, product)
	}
}

func handleDeleteProduct(productsStore store.ProductsStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			respondWithError(w, http.StatusBadRequest, "Product ID is required")
			return
		}

		if err := productsStore.DeleteProduct(r.Context(), id); err != nil {
			respondWithStoreError(w, r, log, err, "Failed to delete product")
			return
		}
		respondWithSuccess(w)
	}
}
