package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fastprodman/fliprooms/internal/domain"
	"github.com/fastprodman/fliprooms/internal/services/rooms"
)

type createRoomRequest struct {
	Identity string `json:"identity"`
	Stake    int64  `json:"stake"`
}

type joinRoomRequest struct {
	Identity string `json:"identity"`
}

type updateRoomRequest struct {
	Status *string `json:"status"`
	Winner string  `json:"winner"`
}

type deleteRoomResponse struct {
	Deleted bool `json:"deleted"`
}

// ListRoomsHandler handles GET /rooms
func (h *HandlerProvider) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.query.ListActiveRooms(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, list)
}

// GetRoomHandler handles GET /rooms/{roomId}
func (h *HandlerProvider) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	sum, err := h.query.GetRoom(r.Context(), chi.URLParam(r, "roomId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, sum)
}

// CreateRoomHandler handles POST /rooms
func (h *HandlerProvider) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	room, err := h.rooms.CreateRoom(r.Context(), req.Identity, req.Stake)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, room)
}

// JoinRoomHandler handles POST /rooms/{roomId}/join
func (h *HandlerProvider) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	game, err := h.rooms.JoinRoom(r.Context(), chi.URLParam(r, "roomId"), req.Identity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, game)
}

// UpdateRoomHandler handles PATCH /rooms/{roomId}
func (h *HandlerProvider) UpdateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req updateRoomRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	upd := rooms.RoomUpdate{Winner: req.Winner}

	if req.Status != nil {
		st, err := domain.ParseRoomStatus(*req.Status)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		upd.Status = &st
	}

	room, err := h.rooms.UpdateRoom(r.Context(), chi.URLParam(r, "roomId"), upd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, room)
}

// ResolveRoomHandler handles POST /rooms/{roomId}/resolve
func (h *HandlerProvider) ResolveRoomHandler(w http.ResponseWriter, r *http.Request) {
	res, err := h.resolver.ResolveRoom(r.Context(), chi.URLParam(r, "roomId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, res)
}

// DeleteRoomHandler handles DELETE /rooms/{roomId}. A missing room is reported
// as deleted=false rather than an error.
func (h *HandlerProvider) DeleteRoomHandler(w http.ResponseWriter, r *http.Request) {
	err := h.rooms.DeleteRoom(r.Context(), chi.URLParam(r, "roomId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeJSON(w, http.StatusOK, deleteRoomResponse{Deleted: false})
			return
		}

		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, deleteRoomResponse{Deleted: true})
}
