package api

import "net/http"

type wagerRequest struct {
	Identity string `json:"identity"`
	Amount   int64  `json:"amount"`
}

// SoloWagerHandler handles POST /wagers
func (h *HandlerProvider) SoloWagerHandler(w http.ResponseWriter, r *http.Request) {
	var req wagerRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.resolver.ResolveSolo(r.Context(), req.Identity, req.Amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, res)
}
