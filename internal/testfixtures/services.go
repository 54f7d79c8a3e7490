package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/seat-rotation/internal/application"
	"github.com/example/seat-rotation/internal/persistence"
)

// ServiceFactory assists tests with constructing application services backed
// by deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// GroupServiceDeps captures dependencies for constructing a group service.
type GroupServiceDeps struct {
	Groups      persistence.GroupRepository
	Members     persistence.MemberRepository
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewGroupService builds a group service from the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewGroupService(deps GroupServiceDeps) *application.GroupService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewGroupService(deps.Groups, deps.Members, idGen, now, deps.Logger)
}

// CalendarServiceDeps captures dependencies for constructing a calendar service.
type CalendarServiceDeps struct {
	Groups   persistence.GroupRepository
	Calendar persistence.CalendarRepository
	Logger   *slog.Logger
}

// NewCalendarService builds a calendar service from the supplied dependencies.
func (f *ServiceFactory) NewCalendarService(deps CalendarServiceDeps) *application.CalendarService {
	return application.NewCalendarService(deps.Groups, deps.Calendar, deps.Logger)
}

// RotationServiceDeps captures dependencies for constructing a rotation service.
type RotationServiceDeps struct {
	Groups       persistence.GroupRepository
	Members      persistence.MemberRepository
	Arrangements persistence.ArrangementRepository
	Calendar     persistence.CalendarRepository
	Now          func() time.Time
	Logger       *slog.Logger
	PlanTTL      time.Duration
}

// NewRotationService builds a rotation service from the supplied dependencies.
func (f *ServiceFactory) NewRotationService(deps RotationServiceDeps) *application.RotationService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewRotationService(
		deps.Groups,
		deps.Members,
		deps.Arrangements,
		deps.Calendar,
		now,
		deps.Logger,
		deps.PlanTTL,
	)
}
