package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/AntonStoeckl/university-library-go/features/books"
	"github.com/AntonStoeckl/university-library-go/features/decommission"
	"github.com/AntonStoeckl/university-library-go/features/loans"
	"github.com/AntonStoeckl/university-library-go/library"
)

const (
	logMsgRequestServed = "request served"
	logMsgRequestFailed = "request failed"
	logMsgPanic         = "panic while serving request"

	logAttrMethod     = "method"
	logAttrPath       = "path"
	logAttrStatus     = "status"
	logAttrDurationMS = "duration_ms"
	logAttrError      = "error"
)

var errMalformedID = errors.New("id is not a valid UUID")

// BookService is the book catalog as the API uses it.
type BookService interface {
	GetByID(ctx context.Context, id uuid.UUID) (books.BookView, error)
	GetByISBN(ctx context.Context, isbn string) (books.BookView, error)
	GetAll(ctx context.Context) ([]books.BookView, error)
	GetByAuthor(ctx context.Context, author string) ([]books.BookView, error)
	GetByTitle(ctx context.Context, title string) ([]books.BookView, error)
	GetAvailable(ctx context.Context) ([]books.BookView, error)
	Create(ctx context.Context, req books.CreateBookRequest) (books.BookView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LoanService is the loan desk as the API uses it.
type LoanService interface {
	GetByID(ctx context.Context, id uuid.UUID) (loans.LoanView, error)
	GetAll(ctx context.Context) ([]loans.LoanView, error)
	GetByBookID(ctx context.Context, bookID uuid.UUID) ([]loans.LoanView, error)
	GetByStudentName(ctx context.Context, studentName string) ([]loans.LoanView, error)
	GetActive(ctx context.Context) ([]loans.LoanView, error)
	GetOverdue(ctx context.Context) ([]loans.LoanView, error)
	GetByDateRange(ctx context.Context, from, to time.Time) ([]loans.LoanView, error)
	CountActiveByStudent(ctx context.Context, studentName string) (int, error)
	CanBorrow(ctx context.Context, bookID uuid.UUID) (bool, error)
	Create(ctx context.Context, req loans.CreateLoanRequest) (loans.LoanView, error)
	Return(ctx context.Context, loanID uuid.UUID) (loans.LoanView, error)
	Delete(ctx context.Context, loanID uuid.UUID) error
}

// DecommissionHandler writes a Book off.
type DecommissionHandler interface {
	Handle(ctx context.Context, command decommission.Command) (decommission.Result, error)
}

// PreviewHandler previews a write-off.
type PreviewHandler interface {
	Handle(ctx context.Context, bookID uuid.UUID) (decommission.Preview, error)
}

// Pinger reports whether storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services are the collaborators the Server delegates to.
type Services struct {
	Books        BookService
	Loans        LoanService
	Decommission DecommissionHandler
	Preview      PreviewHandler
	Health       Pinger
}

// Server routes requests to the services.
type Server struct {
	services         Services
	allowedOrigins   []string
	logger           library.Logger
	contextualLogger library.ContextualLogger
	handler          http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins restricts CORS to the given origins. The default allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

func WithLogger(logger library.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithContextualLogger sets the context-aware logger. It takes precedence over WithLogger.
func WithContextualLogger(logger library.ContextualLogger) Option {
	return func(s *Server) {
		s.contextualLogger = logger
	}
}

// NewServer builds the routing table. Every service in services must be set.
func NewServer(services Services, opts ...Option) *Server {
	s := &Server{
		services:       services,
		allowedOrigins: []string{"*"},
	}

	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	s.routes(mux)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Location"},
	})

	s.handler = corsHandler.Handler(s.recoverer(s.accessLog(mux)))

	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.health)

	mux.HandleFunc("GET /api/books", s.listBooks)
	mux.HandleFunc("GET /api/books/available", s.listAvailableBooks)
	mux.HandleFunc("GET /api/books/{id}", s.getBook)
	mux.HandleFunc("GET /api/books/isbn/{isbn}", s.getBookByISBN)
	mux.HandleFunc("GET /api/books/author/{author}", s.searchBooksByAuthor)
	mux.HandleFunc("GET /api/books/title/{title}", s.searchBooksByTitle)
	mux.HandleFunc("POST /api/books", s.createBook)
	mux.HandleFunc("DELETE /api/books/{id}", s.deleteBook)
	mux.HandleFunc("GET /api/books/{id}/decommission/preview", s.previewDecommission)
	mux.HandleFunc("POST /api/books/{id}/decommission", s.decommissionBook)

	mux.HandleFunc("GET /api/loans", s.listLoans)
	mux.HandleFunc("GET /api/loans/active", s.listActiveLoans)
	mux.HandleFunc("GET /api/loans/overdue", s.listOverdueLoans)
	mux.HandleFunc("GET /api/loans/range", s.listLoansByDateRange)
	mux.HandleFunc("GET /api/loans/{id}", s.getLoan)
	mux.HandleFunc("GET /api/loans/book/{bookId}", s.listLoansByBook)
	mux.HandleFunc("GET /api/loans/student/{studentName}", s.listLoansByStudent)
	mux.HandleFunc("GET /api/loans/student/{studentName}/active-count", s.countActiveLoans)
	mux.HandleFunc("GET /api/loans/can-borrow/{bookId}", s.canBorrow)
	mux.HandleFunc("POST /api/loans", s.createLoan)
	mux.HandleFunc("PATCH /api/loans/{id}/return", s.returnLoan)
	mux.HandleFunc("DELETE /api/loans/{id}", s.deleteLoan)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Health.Ping(r.Context()); err != nil {
		s.logError(r, logMsgRequestFailed, logAttrError, err.Error())
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, errMalformedID
	}

	return id, nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		s.logInfo(r, logMsgRequestServed,
			logAttrMethod, r.Method,
			logAttrPath, r.URL.Path,
			logAttrStatus, recorder.status,
			logAttrDurationMS, float64(time.Since(start).Microseconds())/1000.0,
		)
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler { //nolint:errorlint
					panic(p)
				}

				s.logError(r, logMsgPanic, logAttrError, p)
				writeMessage(w, http.StatusInternalServerError, msgInternalError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) logInfo(r *http.Request, msg string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(r.Context(), msg, args...)
	} else if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Server) logError(r *http.Request, msg string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(r.Context(), msg, args...)
	} else if s.logger != nil {
		s.logger.Error(msg, args...)
	}
}
