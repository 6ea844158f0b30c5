package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/eventhub/internal/client/api"
	"github.com/dmitrijs2005/eventhub/internal/client/cache"
	"github.com/dmitrijs2005/eventhub/internal/client/models"
	"github.com/dmitrijs2005/eventhub/internal/client/session"
	"github.com/dmitrijs2005/eventhub/internal/logging"
)

// EventService exposes the event views and mutations.
//
// Tag map:
//
//	List      provides {Event}
//	Get(id)   provides {Event id}
//	MyEvents  provides {UserEvents}
//	Create    affects  {Event} {UserEvents}
//	Update(id) affects {Event id} {Event} {UserEvents}
//	Delete(id) affects {Event} {UserEvents}
//	RSVP(id)  affects  {Event id} {Event}
type EventService interface {
	List(ctx context.Context, f models.EventFilters) (*models.EventPage, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	MyEvents(ctx context.Context, f models.EventFilters) (*models.EventPage, error)
	Create(ctx context.Context, in models.CreateEventInput) (*models.Event, error)
	Update(ctx context.Context, id string, in models.UpdateEventInput) (*models.Event, error)
	Delete(ctx context.Context, id string) error
	RSVP(ctx context.Context, id string, status models.RSVPStatus) (*models.Event, error)
}

type eventService struct {
	client  api.Client
	session *session.Store
	cache   *cache.Cache
	logger  logging.Logger
}

func NewEventService(client api.Client, sess *session.Store, c *cache.Cache, logger logging.Logger) EventService {
	return &eventService{client: client, session: sess, cache: c, logger: logger.With("component", "events")}
}

// List returns one page of public events, cached per filter combination.
func (s *eventService) List(ctx context.Context, f models.EventFilters) (*models.EventPage, error) {
	key := "events?" + f.Query().Encode()
	return cache.Fetch(ctx, s.cache, key, []cache.Tag{cache.TypeTag(tagEvent)},
		func(ctx context.Context) (*models.EventPage, error) {
			return s.client.Events(ctx, f)
		})
}

// Get returns one event's detail, cached under its id tag.
func (s *eventService) Get(ctx context.Context, id string) (*models.Event, error) {
	return cache.Fetch(ctx, s.cache, "events/"+id, []cache.Tag{cache.IDTag(tagEvent, id)},
		func(ctx context.Context) (*models.Event, error) {
			return s.client.Event(ctx, id)
		})
}

// MyEvents returns the current user's events, cached per filter combination.
func (s *eventService) MyEvents(ctx context.Context, f models.EventFilters) (*models.EventPage, error) {
	if !s.session.IsAuthenticated() {
		return nil, ErrLoginRequired
	}
	key := "my-events?" + f.Query().Encode()
	return cache.Fetch(ctx, s.cache, key, []cache.Tag{cache.TypeTag(tagUserEvents)},
		func(ctx context.Context) (*models.EventPage, error) {
			return s.client.MyEvents(ctx, f)
		})
}

func (s *eventService) Create(ctx context.Context, in models.CreateEventInput) (*models.Event, error) {
	if !s.session.IsAuthenticated() {
		return nil, ErrLoginRequired
	}

	var created *models.Event
	affected := []cache.Tag{cache.TypeTag(tagEvent), cache.TypeTag(tagUserEvents)}
	err := s.cache.Mutate(ctx, affected, func(ctx context.Context) error {
		e, err := s.client.CreateEvent(ctx, in)
		if err != nil {
			return err
		}
		created = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "event created", "id", created.ID)
	return created, nil
}

func (s *eventService) Update(ctx context.Context, id string, in models.UpdateEventInput) (*models.Event, error) {
	if !s.session.IsAuthenticated() {
		return nil, ErrLoginRequired
	}

	var updated *models.Event
	affected := []cache.Tag{
		cache.IDTag(tagEvent, id),
		cache.TypeTag(tagEvent),
		cache.TypeTag(tagUserEvents),
	}
	err := s.cache.Mutate(ctx, affected, func(ctx context.Context) error {
		e, err := s.client.UpdateEvent(ctx, id, in)
		if err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if !s.session.IsAuthenticated() {
		return ErrLoginRequired
	}

	affected := []cache.Tag{cache.TypeTag(tagEvent), cache.TypeTag(tagUserEvents)}
	return s.cache.Mutate(ctx, affected, func(ctx context.Context) error {
		return s.client.DeleteEvent(ctx, id)
	})
}

// RSVP records the current user's attendance response. The operation is
// refused client-side when unauthenticated. The returned event carries the
// authoritative attendee list from the server; the client never merges
// attendee lists itself, and the cap invariant is the server's to enforce —
// its rejection message is surfaced verbatim.
func (s *eventService) RSVP(ctx context.Context, id string, status models.RSVPStatus) (*models.Event, error) {
	if !s.session.IsAuthenticated() {
		return nil, ErrLoginRequired
	}
	if !models.ValidRSVPStatus(status) {
		return nil, fmt.Errorf("invalid rsvp status %q", status)
	}

	var updated *models.Event
	affected := []cache.Tag{cache.IDTag(tagEvent, id), cache.TypeTag(tagEvent)}
	err := s.cache.Mutate(ctx, affected, func(ctx context.Context) error {
		e, err := s.client.RSVP(ctx, id, status)
		if err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
