package models

import (
	"net/url"
	"strconv"
	"time"
)

type EventCategory string

const (
	CategoryConference EventCategory = "Conference"
	CategoryWorkshop   EventCategory = "Workshop"
	CategoryMeetup     EventCategory = "Meetup"
	CategorySeminar    EventCategory = "Seminar"
	CategoryOther      EventCategory = "Other"
)

type EventStatus string

const (
	StatusUpcoming  EventStatus = "upcoming"
	StatusOngoing   EventStatus = "ongoing"
	StatusCompleted EventStatus = "completed"
	StatusCancelled EventStatus = "cancelled"
)

type RSVPStatus string

const (
	RSVPAttending    RSVPStatus = "attending"
	RSVPMaybe        RSVPStatus = "maybe"
	RSVPNotAttending RSVPStatus = "not_attending"
)

// ValidRSVPStatus reports whether s is one of the closed set of RSVP values.
func ValidRSVPStatus(s RSVPStatus) bool {
	switch s {
	case RSVPAttending, RSVPMaybe, RSVPNotAttending:
		return true
	}
	return false
}

// Attendee is a user's attendance record on an event. The server keeps at
// most one record per (event, user) pair; AttendeeByUser gives the map-like
// view the client must use instead of scanning for duplicates.
type Attendee struct {
	UserID     string     `json:"userId"`
	RSVPStatus RSVPStatus `json:"rsvpStatus"`
	RSVPDate   time.Time  `json:"rsvpDate"`
}

// Event is the backend-owned event record. The attendee list is authoritative
// server state: the cap invariant (len(Attendees) <= MaxAttendees when set)
// is enforced server-side and must not be re-derived client-side.
type Event struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Date         time.Time     `json:"date"`
	Location     string        `json:"location"`
	Category     EventCategory `json:"category"`
	CreatedBy    string        `json:"createdBy"`
	Attendees    []Attendee    `json:"attendees"`
	MaxAttendees int           `json:"maxAttendees,omitempty"`
	Status       EventStatus   `json:"status"`
	IsPublic     bool          `json:"isPublic"`
	Tags         []string      `json:"tags,omitempty"`
	ImageURL     string        `json:"imageUrl,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// AttendeeByUser returns the attendance record for userID, or nil if the user
// has not responded.
func (e *Event) AttendeeByUser(userID string) *Attendee {
	for i := range e.Attendees {
		if e.Attendees[i].UserID == userID {
			return &e.Attendees[i]
		}
	}
	return nil
}

// Meta is the pagination block returned alongside event collections.
type Meta struct {
	Page      int `json:"page"`
	Limit     int `json:"limit"`
	Total     int `json:"total"`
	TotalPage int `json:"totalPage"`
}

// EventPage is one page of an event collection.
type EventPage struct {
	Events []Event `json:"events"`
	Meta   Meta    `json:"meta"`
}

// EventFilters is transient, per-view query state for event listings.
type EventFilters struct {
	SearchTerm string `json:"searchTerm,omitempty"`
	Category   string `json:"category,omitempty"`
	Status     string `json:"status,omitempty"`
	Page       int    `json:"page,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// DefaultFilters matches the backend's first-page defaults.
func DefaultFilters() EventFilters {
	return EventFilters{Page: 1, Limit: 9}
}

// Query encodes the filters as URL query parameters, omitting empty fields.
func (f EventFilters) Query() url.Values {
	q := url.Values{}
	if f.SearchTerm != "" {
		q.Set("search", f.SearchTerm)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// CreateEventInput is the payload for event creation.
type CreateEventInput struct {
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Date         time.Time     `json:"date"`
	Location     string        `json:"location"`
	Category     EventCategory `json:"category"`
	MaxAttendees int           `json:"maxAttendees,omitempty"`
	IsPublic     bool          `json:"isPublic"`
	Tags         []string      `json:"tags,omitempty"`
	ImageURL     string        `json:"imageUrl,omitempty"`
}

// UpdateEventInput is a partial PATCH payload; nil fields are left unchanged
// by the server.
type UpdateEventInput struct {
	Title        *string        `json:"title,omitempty"`
	Description  *string        `json:"description,omitempty"`
	Date         *time.Time     `json:"date,omitempty"`
	Location     *string        `json:"location,omitempty"`
	Category     *EventCategory `json:"category,omitempty"`
	MaxAttendees *int           `json:"maxAttendees,omitempty"`
	IsPublic     *bool          `json:"isPublic,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	ImageURL     *string        `json:"imageUrl,omitempty"`
	Status       *EventStatus   `json:"status,omitempty"`
}
