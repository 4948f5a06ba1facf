// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	perrors "github.com/abgdnv/productcrud/internal/errors"
	"github.com/abgdnv/productcrud/internal/service"
	"github.com/abgdnv/productcrud/pkg/web"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const (
	productIDParam = "productId"
	readyTimeout   = 2 * time.Second
)

// ReadinessCheck is a named dependency probe evaluated by /readyz.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Handler struct {
	service  service.ProductService
	reporter *ErrorReporter
	checks   []ReadinessCheck
	logger   *slog.Logger
}

// NewHandler creates a new instance of the product API with the provided service.
// The store is always part of readiness; extra checks are added to it.
func NewHandler(service service.ProductService, reporter *ErrorReporter, logger *slog.Logger, checks ...ReadinessCheck) *Handler {
	all := append([]ReadinessCheck{{Name: "store", Check: service.Ping}}, checks...)
	return &Handler{
		service:  service,
		reporter: reporter,
		checks:   all,
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the product service.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)

		r.Route("/{"+productIDParam+"}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Update)
			r.Delete("/", h.DeleteByID)
		})
	})

	r.Get("/healthz", h.HealthCheck)
	r.Get("/readyz", h.ReadyCheck)
}

// FindAll retrieves a list of all products.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received request to find all products")
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		h.reporter.Report(w, r, err)
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var productCreateDto service.ProductCreateDto
	if !h.decode(w, r, &productCreateDto) {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to create product", "product", productCreateDto)

	newProduct, err := h.service.Create(r.Context(), productCreateDto)
	if err != nil {
		h.reporter.Report(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", newProduct.ID, "Name", newProduct.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, newProduct)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, productIDParam)
	h.logger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)

	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.handleError(w, r, id, err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// Update replaces the given fields of a product and responds with the result.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, productIDParam)
	var productUpdateDto service.ProductUpdateDto
	if !h.decode(w, r, &productUpdateDto) {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to update product", "ID", id)

	updated, err := h.service.Update(r.Context(), id, productUpdateDto)
	if err != nil {
		h.handleError(w, r, id, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID and responds with the deleted product.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, productIDParam)
	h.logger.DebugContext(r.Context(), "Received request to delete product", "ID", id)

	deleted, err := h.service.DeleteByID(r.Context(), id)
	if err != nil {
		h.handleError(w, r, id, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	web.RespondJSON(w, h.logger, http.StatusOK, deleted)
}

// HealthCheck is a simple liveness endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ReadyCheck answers 200 when every dependency responds, 503 otherwise.
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	for _, c := range h.checks {
		g.Go(func() error {
			if err := c.Check(gCtx); err != nil {
				return fmt.Errorf("%s: %w", c.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.logger.WarnContext(r.Context(), "Readiness check failed", "error", err)
		web.RespondMessage(w, h.logger, http.StatusServiceUnavailable, err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleError answers 404 without a body for a missing product and reports everything else.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, id string, err error) {
	if errors.Is(err, perrors.ErrProductNotFound) {
		h.logger.WarnContext(r.Context(), "Product not found", "ID", id)
		web.RespondEmpty(w, http.StatusNotFound)
		return
	}
	h.reporter.Report(w, r, err)
}

// decode reads a single JSON value from the body into dst. An empty body decodes
// as an empty object; anything after the first value is rejected.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return true
	}
	if err == nil {
		err = ensureEOF(dec)
	}
	if err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondMessage(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

var errTrailingData = errors.New("unexpected data after JSON body")

func ensureEOF(dec *json.Decoder) error {
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return err
		}
		return errTrailingData
	}
	return nil
}
