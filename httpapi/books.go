package httpapi

import (
	"net/http"

	"github.com/AntonStoeckl/university-library-go/features/books"
)

func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	views, err := s.services.Books.GetAll(r.Context())
	s.respond(w, r, http.StatusOK, views, err)
}

func (s *Server) listAvailableBooks(w http.ResponseWriter, r *http.Request) {
	views, err := s.services.Books.GetAvailable(r.Context())
	s.respond(w, r, http.StatusOK, views, err)
}

func (s *Server) getBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.services.Books.GetByID(r.Context(), id)
	s.respond(w, r, http.StatusOK, view, err)
}

func (s *Server) getBookByISBN(w http.ResponseWriter, r *http.Request) {
	view, err := s.services.Books.GetByISBN(r.Context(), r.PathValue("isbn"))
	s.respond(w, r, http.StatusOK, view, err)
}

func (s *Server) searchBooksByAuthor(w http.ResponseWriter, r *http.Request) {
	views, err := s.services.Books.GetByAuthor(r.Context(), r.PathValue("author"))
	s.respond(w, r, http.StatusOK, views, err)
}

func (s *Server) searchBooksByTitle(w http.ResponseWriter, r *http.Request) {
	views, err := s.services.Books.GetByTitle(r.Context(), r.PathValue("title"))
	s.respond(w, r, http.StatusOK, views, err)
}

func (s *Server) createBook(w http.ResponseWriter, r *http.Request) {
	var req books.CreateBookRequest
	if err := readJSON(r, &req, false); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.services.Books.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/books/"+view.ID.String())
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.services.Books.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// respond writes body with status, or the mapped error if err is set.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, body any, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, status, body)
}
