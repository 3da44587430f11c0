package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/team"
	"github.com/fekuna/omnipos-storefront/internal/team/dto"
	"github.com/fekuna/omnipos-storefront/pkg/httpjson"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/gorilla/mux"
)

type TeamHandler struct {
	uc     team.UseCase
	logger logger.ZapLogger
}

func NewTeamHandler(uc team.UseCase, log logger.ZapLogger) *TeamHandler {
	return &TeamHandler{
		uc:     uc,
		logger: log,
	}
}

type memberList struct {
	Members []model.TeamMember `json:"members"`
	Total   int                `json:"total"`
}

func (h *TeamHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.uc.ListMembers(r.Context())
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, memberList{Members: members, Total: len(members)})
}

func (h *TeamHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMemberInput
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	m, err := h.uc.CreateMember(r.Context(), &req)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, m)
}

func (h *TeamHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteMember(r.Context(), mux.Vars(r)["id"]); err != nil {
		httpjson.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TeamHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdatePasswordInput
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}
	req.ID = mux.Vars(r)["id"]

	if err := h.uc.UpdatePassword(r.Context(), &req); err != nil {
		httpjson.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
