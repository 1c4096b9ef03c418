// Package api: handlers for the product catalog endpoints.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sobmedida/atelier-api/internal/models"
)

// pathCode extracts the trailing entity code from a path like /products/{code}.
// Returns "" for the bare collection path.
func pathCode(path, prefix string) string {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	if strings.Contains(rest, "/") {
		return ""
	}
	return rest
}

// productsHandler routes /products and /products/{code}.
func (s *Server) productsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	code := pathCode(r.URL.Path, "/products")

	if code == "" {
		switch r.Method {
		case http.MethodGet:
			s.listProductsHandler(w, r)
		case http.MethodPost:
			s.createProductHandler(w, r)
		default:
			w.Header().Set("Allow", "GET, POST")
			writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getProductHandler(w, r, code)
	case http.MethodPut:
		s.updateProductHandler(w, r, code)
	case http.MethodDelete:
		s.deleteProductHandler(w, r, code)
	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
	}
}

func (s *Server) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.createProductHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		slog.Warn("Server.createProductHandler: validation failed", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	code, err := models.NewCode(models.CodePrefixProduct)
	if err != nil {
		slog.Error("Server.createProductHandler: failed to generate code", "error", err)
		writeInternalError(w)
		return
	}
	product := models.Product{
		Code:        code,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		PartCodes:   req.PartCodes,
		CreatedAt:   time.Now(),
	}
	if err := s.st.SaveProduct(product); err != nil {
		slog.Error("Server.createProductHandler: failed to save product", "error", err, "code", code)
		writeInternalError(w)
		return
	}

	slog.Info("Product created", "code", code, "name", product.Name)
	writeJSONResponse(w, http.StatusCreated, models.Success(product))
}

func (s *Server) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := s.st.ListProducts()
	if err != nil {
		slog.Error("Server.listProductsHandler: failed to list products", "error", err)
		writeInternalError(w)
		return
	}
	slog.Debug("Server.listProductsHandler: products fetched", "count", len(products))
	writeJSONResponse(w, http.StatusOK, models.Success(products))
}

func (s *Server) getProductHandler(w http.ResponseWriter, r *http.Request, code string) {
	product, err := s.st.GetProduct(code)
	if err != nil {
		slog.Error("Server.getProductHandler: failed to fetch product", "error", err, "code", code)
		writeInternalError(w)
		return
	}
	if product == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Product not found"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(product))
}

func (s *Server) updateProductHandler(w http.ResponseWriter, r *http.Request, code string) {
	existing, err := s.st.GetProduct(code)
	if err != nil {
		slog.Error("Server.updateProductHandler: failed to fetch product", "error", err, "code", code)
		writeInternalError(w)
		return
	}
	if existing == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Product not found"))
		return
	}

	var req models.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.updateProductHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		slog.Warn("Server.updateProductHandler: validation failed", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = req.Price
	existing.PartCodes = req.PartCodes
	if err := s.st.SaveProduct(*existing); err != nil {
		slog.Error("Server.updateProductHandler: failed to save product", "error", err, "code", code)
		writeInternalError(w)
		return
	}

	slog.Info("Product updated", "code", code)
	writeJSONResponse(w, http.StatusOK, models.Success(existing))
}

func (s *Server) deleteProductHandler(w http.ResponseWriter, r *http.Request, code string) {
	existing, err := s.st.GetProduct(code)
	if err != nil {
		slog.Error("Server.deleteProductHandler: failed to fetch product", "error", err, "code", code)
		writeInternalError(w)
		return
	}
	if existing == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Product not found"))
		return
	}
	if err := s.st.DeleteProduct(code); err != nil {
		slog.Error("Server.deleteProductHandler: failed to delete product", "error", err, "code", code)
		writeInternalError(w)
		return
	}

	slog.Info("Product deleted", "code", code)
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Product deleted successfully", nil))
}

// partsHandler routes /parts and /parts/{code}.
func (s *Server) partsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	code := pathCode(r.URL.Path, "/parts")

	if code == "" {
		switch r.Method {
		case http.MethodGet:
			s.listPartsHandler(w, r)
		case http.MethodPost:
			s.createPartHandler(w, r)
		default:
			w.Header().Set("Allow", "GET, POST")
			writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getPartHandler(w, r, code)
	case http.MethodPut:
		s.updatePartHandler(w, r, code)
	case http.MethodDelete:
		s.deletePartHandler(w, r, code)
	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
	}
}

// partFromRequest builds the stored part from a validated request. Active
// defaults to true when the field is absent.
func partFromRequest(code string, req models.ProductPartRequest, createdAt time.Time) models.ProductPart {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	maxQuantity := req.MaxQuantity
	if maxQuantity == 0 {
		maxQuantity = 1
	}
	return models.ProductPart{
		Code:        code,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Active:      active,
		Required:    req.Required,
		MaxQuantity: maxQuantity,
		MinQuantity: req.MinQuantity,
		CreatedAt:   createdAt,
	}
}

func (s *Server) createPartHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ProductPartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.createPartHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		slog.Warn("Server.createPartHandler: validation failed", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	code, err := models.NewCode(models.CodePrefixProductPart)
	if err != nil {
		slog.Error("Server.createPartHandler: failed to generate code", "error", err)
		writeInternalError(w)
		return
	}
	part := partFromRequest(code, req, time.Now())
	if err := s.st.SavePart(part); err != nil {
		slog.Error("Server.createPartHandler: failed to save part", "error", err, "code", code)
		writeInternalError(w)
		return
	}

	slog.Info("Product part created", "code", code, "name", part.Name)
	writeJSONResponse(w, http.StatusCreated, models.Success(part))
}

func (s *Server) listPartsHandler(w http.ResponseWriter, r *http.Request) {
	parts, err := s.st.ListParts()
	if err != nil {
		slog.Error("Server.listPartsHandler: failed to list parts", "error", err)
		writeInternalError(w)
		return
	}
	slog.Debug("Server.listPartsHandler: parts fetched", "count", len(parts))
	writeJSONResponse(w, http.StatusOK, models.Success(parts))
}

func (s *Server) getPartHandler(w http.ResponseWriter, r *http.Request, code string) {
	part, err := s.st.GetPart(code)
	if err != nil {
		slog.Error("Server.getPartHandler: failed to fetch part", "error", err, "code", code)
		writeInternalError(w)
		return
	}
	if part == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Product part not found"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(part))
}

func (s *Server) updatePartHandler(w http.ResponseWriter, r *http.Request, code string) {
	existing, err := s.st.GetPart(code)
	if err != nil {
		slog.Error("Server.updatePartHandler: failed to fetch part", "error", err, "code", code)
		writeInternalError(w)
		return
	}
	if existing == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Product part not found"))
		return
	}

	var req models.ProductPartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.updatePartHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		slog.Warn("Server.updatePartHandler: validation failed", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	part := partFromRequest(code, req, existing.CreatedAt)
	if err := s.st.SavePart(part); err != nil {
		slog.Error("Server.updatePartHandler: failed to save part", "error", err, "code", code)
		writeInternalError(w)
		return
	}

	slog.Info("Product part updated", "code", code)
	writeJSONResponse(w, http.StatusOK, models.Success(part))
}

func (s *Server) deletePartHandler(w http.ResponseWriter, r *http.Request, code string) {
	existing, err := s.st.GetPart(code)
	if err != nil {
		slog.Error("Server.deletePartHandler: failed to fetch part", "error", err, "code", code)
		writeInternalError(w)
		return
	}
	if existing == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Product part not found"))
		return
	}
	if err := s.st.DeletePart(code); err != nil {
		slog.Error("Server.deletePartHandler: failed to delete part", "error", err, "code", code)
		writeInternalError(w)
		return
	}

	slog.Info("Product part deleted", "code", code)
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Product part deleted successfully", nil))
}
