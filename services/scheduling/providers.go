package scheduling

import (
	"context"
	"fmt"
	"time"

	busyblockRepo "bookable/database/repository/busyblock"
	"bookable/models"
)

// ProviderKind identifies a connected calendar integration.
type ProviderKind string

const (
	KindGoogleCalendar ProviderKind = "google_calendar"
	KindOutlook        ProviderKind = "outlook"
	KindAppleCalendar  ProviderKind = "apple_calendar"
)

// ParseKind validates a configured busy-source name.
func ParseKind(s string) (ProviderKind, error) {
	switch ProviderKind(s) {
	case KindGoogleCalendar, KindOutlook, KindAppleCalendar:
		return ProviderKind(s), nil
	}
	return "", fmt.Errorf("unknown busy-time provider kind %q", s)
}

// BusyTimeProvider supplies the busy periods of one calendar integration.
type BusyTimeProvider interface {
	Kind() ProviderKind
	GetBusyTimes(ctx context.Context, start, end time.Time) ([]models.Period, error)
}

// ProviderRegistry holds the busy-time providers enabled at startup.
type ProviderRegistry struct {
	providers map[ProviderKind]BusyTimeProvider
	order     []ProviderKind
}

// NewProviderRegistry constructs an empty registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{providers: make(map[ProviderKind]BusyTimeProvider)}
}

// Register adds a provider; registering the same kind twice is an error.
func (r *ProviderRegistry) Register(p BusyTimeProvider) error {
	if _, exists := r.providers[p.Kind()]; exists {
		return fmt.Errorf("busy-time provider %q already registered", p.Kind())
	}
	r.providers[p.Kind()] = p
	r.order = append(r.order, p.Kind())
	return nil
}

// All returns the registered providers in registration order.
func (r *ProviderRegistry) All() []BusyTimeProvider {
	out := make([]BusyTimeProvider, 0, len(r.order))
	for _, kind := range r.order {
		out = append(out, r.providers[kind])
	}
	return out
}

// MirrorProvider reads the busy blocks a calendar sync has mirrored into the
// database for one integration.
type MirrorProvider struct {
	ProviderKind ProviderKind
	Repo         busyblockRepo.BusyBlockRepository
}

func (p *MirrorProvider) Kind() ProviderKind {
	return p.ProviderKind
}

func (p *MirrorProvider) GetBusyTimes(ctx context.Context, start, end time.Time) ([]models.Period, error) {
	return p.Repo.FindBySource(ctx, string(p.ProviderKind), start, end)
}
