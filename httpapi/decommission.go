package httpapi

import (
	"net/http"

	"github.com/AntonStoeckl/university-library-go/features/decommission"
)

type decommissionRequest struct {
	Reason      string `json:"reason"`
	Responsible string `json:"responsible"`
}

func (s *Server) previewDecommission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	preview, err := s.services.Preview.Handle(r.Context(), id)
	s.respond(w, r, http.StatusOK, preview, err)
}

// decommissionBook accepts an empty body; reason and responsible are optional.
func (s *Server) decommissionBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	var req decommissionRequest
	if err := readJSON(r, &req, true); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.services.Decommission.Handle(
		r.Context(),
		decommission.BuildCommand(id, req.Reason, req.Responsible),
	)
	s.respond(w, r, http.StatusOK, result, err)
}
