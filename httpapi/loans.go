package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/university-library-go/features/loans"
)

var errMalformedDate = errors.New("from and to must be RFC 3339 timestamps")

type activeCountResponse struct {
	StudentName string `json:"studentName"`
	ActiveLoans int    `json:"activeLoans"`
}

type canBorrowResponse struct {
	BookID    uuid.UUID `json:"bookId"`
	CanBorrow bool      `json:"canBorrow"`
}

func (s *Server) listLoans(w http.ResponseWriter, r *http.Request) {
	views, err := s.services.Loans.GetAll(r.Context())
	s.respond(w, r, http.StatusOK, views, err)
}

func (s *Server) listActiveLoans(w http.ResponseWriter, r *http.Request) {
	views, err := s.services.Loans.GetActive(r.Context())
	s.respond(w, r, http.StatusOK, views, err)
}

func (s *Server) listOverdueLoans(w http.ResponseWriter, r *http.Request) {
	views, err := s.services.Loans.GetOverdue(r.Context())
	s.respond(w, r, http.StatusOK, views, err)
}

func (s *Server) listLoansByDateRange(w http.ResponseWriter, r *http.Request) {
	from, fromErr := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	to, toErr := time.Parse(time.RFC3339, r.URL.Query().Get("to"))

	if fromErr != nil || toErr != nil {
		writeMessage(w, http.StatusBadRequest, errMalformedDate.Error())
		return
	}

	views, err := s.services.Loans.GetByDateRange(r.Context(), from, to)
	s.respond(w, r, http.StatusOK, views, err)
}

func (s *Server) getLoan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.services.Loans.GetByID(r.Context(), id)
	s.respond(w, r, http.StatusOK, view, err)
}

func (s *Server) listLoansByBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "bookId")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	views, err := s.services.Loans.GetByBookID(r.Context(), bookID)
	s.respond(w, r, http.StatusOK, views, err)
}

func (s *Server) listLoansByStudent(w http.ResponseWriter, r *http.Request) {
	views, err := s.services.Loans.GetByStudentName(r.Context(), r.PathValue("studentName"))
	s.respond(w, r, http.StatusOK, views, err)
}

func (s *Server) countActiveLoans(w http.ResponseWriter, r *http.Request) {
	studentName := r.PathValue("studentName")

	count, err := s.services.Loans.CountActiveByStudent(r.Context(), studentName)
	s.respond(w, r, http.StatusOK, activeCountResponse{StudentName: studentName, ActiveLoans: count}, err)
}

func (s *Server) canBorrow(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "bookId")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := s.services.Loans.CanBorrow(r.Context(), bookID)
	s.respond(w, r, http.StatusOK, canBorrowResponse{BookID: bookID, CanBorrow: ok}, err)
}

func (s *Server) createLoan(w http.ResponseWriter, r *http.Request) {
	var req loans.CreateLoanRequest
	if err := readJSON(r, &req, false); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.services.Loans.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/loans/"+view.ID.String())
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) returnLoan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.services.Loans.Return(r.Context(), id)
	s.respond(w, r, http.StatusOK, view, err)
}

func (s *Server) deleteLoan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.services.Loans.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
