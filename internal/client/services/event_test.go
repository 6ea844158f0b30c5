package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/eventhub/internal/client/api"
	"github.com/dmitrijs2005/eventhub/internal/client/models"
)

func somePage(ids ...string) *models.EventPage {
	p := &models.EventPage{Meta: models.Meta{Page: 1, Limit: 9, Total: len(ids)}}
	for _, id := range ids {
		p.Events = append(p.Events, models.Event{ID: id})
	}
	return p
}

func TestEventService_List_CachedPerFilter(t *testing.T) {
	fx := setup(t)
	fx.client.EventsRes = somePage("e1", "e2")
	ctx := context.Background()

	_, err := fx.events.List(ctx, models.DefaultFilters())
	require.NoError(t, err)
	_, err = fx.events.List(ctx, models.DefaultFilters())
	require.NoError(t, err)
	assert.Equal(t, 1, fx.client.EventsCalls)

	// a different filter combination is a different cache key
	_, err = fx.events.List(ctx, models.EventFilters{Status: "upcoming", Page: 1, Limit: 9})
	require.NoError(t, err)
	assert.Equal(t, 2, fx.client.EventsCalls)
}

func TestEventService_Create_EvictsListAndMyEvents(t *testing.T) {
	fx := setup(t)
	fx.login(t)
	ctx := context.Background()

	fx.client.EventsRes = somePage("e1")
	fx.client.MyEventsRes = somePage("e1")
	_, err := fx.events.List(ctx, models.DefaultFilters())
	require.NoError(t, err)
	_, err = fx.events.MyEvents(ctx, models.DefaultFilters())
	require.NoError(t, err)

	fx.client.CreateRes = &models.Event{ID: "e2", Title: "new"}
	created, err := fx.events.Create(ctx, models.CreateEventInput{Title: "new"})
	require.NoError(t, err)
	assert.Equal(t, "e2", created.ID)

	_, err = fx.events.List(ctx, models.DefaultFilters())
	require.NoError(t, err)
	_, err = fx.events.MyEvents(ctx, models.DefaultFilters())
	require.NoError(t, err)
	assert.Equal(t, 2, fx.client.EventsCalls, "list must be refetched after create")
	assert.Equal(t, 2, fx.client.MyEventsCalls, "my-events must be refetched after create")
}

func TestEventService_Update_EvictsDetail(t *testing.T) {
	fx := setup(t)
	fx.login(t)
	ctx := context.Background()

	fx.client.EventRes = &models.Event{ID: "e1", Title: "old"}
	_, err := fx.events.Get(ctx, "e1")
	require.NoError(t, err)

	title := "new"
	fx.client.UpdateRes = &models.Event{ID: "e1", Title: title}
	_, err = fx.events.Update(ctx, "e1", models.UpdateEventInput{Title: &title})
	require.NoError(t, err)

	fx.client.EventRes = &models.Event{ID: "e1", Title: title}
	_, err = fx.events.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 2, fx.client.EventCalls, "detail must be refetched after update")
}

func TestEventService_Update_OtherDetailSurvives(t *testing.T) {
	fx := setup(t)
	fx.login(t)
	ctx := context.Background()

	fx.client.EventRes = &models.Event{ID: "e2"}
	_, err := fx.events.Get(ctx, "e2")
	require.NoError(t, err)

	title := "new"
	fx.client.UpdateRes = &models.Event{ID: "e1"}
	_, err = fx.events.Update(ctx, "e1", models.UpdateEventInput{Title: &title})
	require.NoError(t, err)

	_, err = fx.events.Get(ctx, "e2")
	require.NoError(t, err)
	assert.Equal(t, 1, fx.client.EventCalls, "unrelated detail entry must not be evicted")
}

func TestEventService_FailedMutationLeavesCache(t *testing.T) {
	fx := setup(t)
	fx.login(t)
	ctx := context.Background()

	fx.client.EventsRes = somePage("e1")
	_, err := fx.events.List(ctx, models.DefaultFilters())
	require.NoError(t, err)

	fx.client.DeleteErr = &api.Error{Status: 403, Message: "Not your event"}
	err = fx.events.Delete(ctx, "e1")
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrForbidden)

	_, err = fx.events.List(ctx, models.DefaultFilters())
	require.NoError(t, err)
	assert.Equal(t, 1, fx.client.EventsCalls, "failed delete must not evict the list")
}

func TestEventService_RSVP_RefusedWhenUnauthenticated(t *testing.T) {
	fx := setup(t)

	_, err := fx.events.RSVP(context.Background(), "e1", models.RSVPAttending)
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Equal(t, 0, fx.client.RSVPCalls, "no network call before the client-side refusal")
}

func TestEventService_RSVP_InvalidStatusRejected(t *testing.T) {
	fx := setup(t)
	fx.login(t)

	_, err := fx.events.RSVP(context.Background(), "e1", "going")
	require.Error(t, err)
	assert.Equal(t, 0, fx.client.RSVPCalls)
}

func TestEventService_RSVP_ServerListReplacesCachedCopy(t *testing.T) {
	fx := setup(t)
	fx.login(t)
	ctx := context.Background()

	// Repeating the same RSVP twice yields one attendee record, not two:
	// the server keeps one record per (event, user) and the client takes its
	// list verbatim instead of appending locally.
	authoritative := &models.Event{
		ID: "e1",
		Attendees: []models.Attendee{
			{UserID: "u1", RSVPStatus: models.RSVPAttending, RSVPDate: time.Now()},
		},
	}
	fx.client.RSVPRes = authoritative

	e, err := fx.events.RSVP(ctx, "e1", models.RSVPAttending)
	require.NoError(t, err)
	e, err = fx.events.RSVP(ctx, "e1", models.RSVPAttending)
	require.NoError(t, err)

	assert.Equal(t, 2, fx.client.RSVPCalls)
	require.Len(t, e.Attendees, 1)
	assert.Equal(t, "u1", e.Attendees[0].UserID)
}

func TestEventService_RSVP_EvictsDetailAndList(t *testing.T) {
	fx := setup(t)
	fx.login(t)
	ctx := context.Background()

	fx.client.EventRes = &models.Event{ID: "e1"}
	fx.client.EventsRes = somePage("e1")
	fx.client.MyEventsRes = somePage()
	_, err := fx.events.Get(ctx, "e1")
	require.NoError(t, err)
	_, err = fx.events.List(ctx, models.DefaultFilters())
	require.NoError(t, err)
	_, err = fx.events.MyEvents(ctx, models.DefaultFilters())
	require.NoError(t, err)

	fx.client.RSVPRes = &models.Event{ID: "e1"}
	_, err = fx.events.RSVP(ctx, "e1", models.RSVPMaybe)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPMaybe, fx.client.LastRSVP)

	_, err = fx.events.Get(ctx, "e1")
	require.NoError(t, err)
	_, err = fx.events.List(ctx, models.DefaultFilters())
	require.NoError(t, err)
	_, err = fx.events.MyEvents(ctx, models.DefaultFilters())
	require.NoError(t, err)

	assert.Equal(t, 2, fx.client.EventCalls, "detail refetched after rsvp")
	assert.Equal(t, 2, fx.client.EventsCalls, "list refetched after rsvp")
	assert.Equal(t, 1, fx.client.MyEventsCalls, "my-events untouched by rsvp")
}

func TestEventService_RSVP_CapRejectionSurfacedVerbatim(t *testing.T) {
	fx := setup(t)
	fx.login(t)

	fx.client.RSVPErr = &api.Error{Status: 400, Message: "Event has reached maximum attendees"}

	_, err := fx.events.RSVP(context.Background(), "e1", models.RSVPAttending)
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Event has reached maximum attendees", apiErr.Message)
}

func TestEventService_MyEvents_RequiresAuth(t *testing.T) {
	fx := setup(t)

	_, err := fx.events.MyEvents(context.Background(), models.DefaultFilters())
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Equal(t, 0, fx.client.MyEventsCalls)
}

func TestEventService_Get_NotFoundPassedThrough(t *testing.T) {
	fx := setup(t)
	fx.client.EventErr = &api.Error{Status: 404, Message: "Event not found"}

	_, err := fx.events.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, api.ErrNotFound)
}
