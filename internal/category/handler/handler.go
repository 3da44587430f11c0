package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-storefront/internal/category"
	"github.com/fekuna/omnipos-storefront/internal/category/dto"
	"github.com/fekuna/omnipos-storefront/pkg/httpjson"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.uc.ListCategories(r.Context())
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, dto.CategoryList{Categories: cats, Total: len(cats)})
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	p, err := h.uc.CreateCategory(r.Context(), &dto.CreateCategoryInput{Name: req.Name})
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	h.logger.Info("category added", zap.String("category", p.Category))
	httpjson.Write(w, http.StatusCreated, p)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	n, err := h.uc.DeleteCategory(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, dto.DeleteResult{Deleted: n})
}
