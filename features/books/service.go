package books

import (
	"github.com/AntonStoeckl/university-library-go/library"
	"github.com/AntonStoeckl/university-library-go/shell"
)

const (
	commandTypeCreateBook = "CreateBook"
	commandTypeDeleteBook = "DeleteBook"

	queryTypeGetBook          = "GetBook"
	queryTypeGetBookByISBN    = "GetBookByISBN"
	queryTypeGetAllBooks      = "GetAllBooks"
	queryTypeGetBooksByAuthor = "GetBooksByAuthor"
	queryTypeGetBooksByTitle  = "GetBooksByTitle"
	queryTypeGetAvailable     = "GetAvailableBooks"
)

// Service is the Book catalog.
type Service struct {
	uow      library.UnitOfWork
	clock    library.Clock
	observer shell.Observer
}

// Option configures a Service.
type Option func(*Service) error

// NewService creates a Service on top of uow. Without WithClock it uses the system clock.
func NewService(uow library.UnitOfWork, opts ...Option) (Service, error) {
	if uow == nil {
		return Service{}, library.ErrNilUnitOfWork
	}

	s := Service{
		uow:   uow,
		clock: library.SystemClock{},
	}

	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return Service{}, err
		}
	}

	return s, nil
}

// WithClock sets the time source for creation timestamps.
func WithClock(clock library.Clock) Option {
	return func(s *Service) error {
		s.clock = clock
		return nil
	}
}

// WithLogger sets the basic logger.
func WithLogger(logger library.Logger) Option {
	return func(s *Service) error {
		s.observer.Logger = logger
		return nil
	}
}

// WithContextualLogger sets the context-aware logger. It takes precedence over WithLogger.
func WithContextualLogger(logger library.ContextualLogger) Option {
	return func(s *Service) error {
		s.observer.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector library.MetricsCollector) Option {
	return func(s *Service) error {
		s.observer.Metrics = collector
		return nil
	}
}

// WithTracing sets the tracing collector.
func WithTracing(collector library.TracingCollector) Option {
	return func(s *Service) error {
		s.observer.Tracing = collector
		return nil
	}
}
