package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/eventhub/internal/client/api"
	"github.com/dmitrijs2005/eventhub/internal/client/models"
	"github.com/dmitrijs2005/eventhub/internal/client/services"
)

const dateLayout = "2006-01-02 15:04"

// printError renders a failed command. A 404 is an absent resource, not a
// fault; validation failures are shown per field; everything else shows the
// server's message verbatim.
func (a *App) printError(err error) {
	switch {
	case errors.Is(err, services.ErrLoginRequired):
		fmt.Println("Please log in first.")
	case errors.Is(err, api.ErrNotFound):
		fmt.Println("Not found.")
	case errors.Is(err, api.ErrUnavailable):
		fmt.Println("Server unavailable, please try again later.")
	default:
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			fmt.Println("Error:", apiErr.Message)
			for _, src := range apiErr.ErrorSources {
				fmt.Printf("  %s: %s\n", src.Path, src.Message)
			}
			return
		}
		fmt.Println("Error:", err)
	}
}

func printEventRow(e *models.Event) {
	fmt.Printf("%s  %-30s  %-10s  %s  %d attending\n",
		e.ID, e.Title, e.Category, e.Date.Local().Format(dateLayout), len(e.Attendees))
}

func printPage(page *models.EventPage) {
	if len(page.Events) == 0 {
		fmt.Println("No events found.")
		return
	}
	for i := range page.Events {
		printEventRow(&page.Events[i])
	}
	fmt.Printf("Page %d of %d (%d total)\n", page.Meta.Page, page.Meta.TotalPage, page.Meta.Total)
}

// ListEvents shows one page of public events using the current filters.
func (a *App) ListEvents(ctx context.Context) error {
	page, err := a.events.List(ctx, a.filters)
	if err != nil {
		return err
	}
	printPage(page)
	return nil
}

// MyEvents shows one page of events the signed-in user created or responded to.
func (a *App) MyEvents(ctx context.Context) error {
	page, err := a.events.MyEvents(ctx, a.filters)
	if err != nil {
		return err
	}
	printPage(page)
	return nil
}

// ShowEvent renders one event's detail, including the signed-in user's own
// RSVP if they have responded.
func (a *App) ShowEvent(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Usage: show <id>")
		return nil
	}

	e, err := a.events.Get(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Title:       %s\n", e.Title)
	fmt.Printf("Date:        %s\n", e.Date.Local().Format(dateLayout))
	fmt.Printf("Location:    %s\n", e.Location)
	fmt.Printf("Category:    %s\n", e.Category)
	fmt.Printf("Status:      %s\n", e.Status)
	if e.MaxAttendees > 0 {
		fmt.Printf("Attendees:   %d / %d\n", len(e.Attendees), e.MaxAttendees)
	} else {
		fmt.Printf("Attendees:   %d\n", len(e.Attendees))
	}
	if len(e.Tags) > 0 {
		fmt.Printf("Tags:        %s\n", strings.Join(e.Tags, ", "))
	}
	if e.Description != "" {
		fmt.Printf("Description: %s\n", e.Description)
	}

	if u := a.session.User(); u != nil {
		if att := e.AttendeeByUser(u.ID); att != nil {
			fmt.Printf("Your RSVP:   %s\n", att.RSVPStatus)
		}
	}
	return nil
}

// CreateEvent walks the user through the event form and submits it.
func (a *App) CreateEvent(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}

	description, err := GetMultiline(a.reader, "Enter description", os.Stdout)
	if err != nil {
		return err
	}

	dateText, err := getSimpleText(a.reader, "Enter date (YYYY-MM-DD HH:MM)", os.Stdout)
	if err != nil {
		return err
	}
	date, err := time.ParseInLocation(dateLayout, dateText, time.Local)
	if err != nil {
		fmt.Println("Invalid date, expected format:", dateLayout)
		return nil
	}

	location, err := getSimpleText(a.reader, "Enter location", os.Stdout)
	if err != nil {
		return err
	}

	category, err := getSimpleText(a.reader, "Enter category (Conference|Workshop|Meetup|Seminar|Other)", os.Stdout)
	if err != nil {
		return err
	}

	maxText, err := getSimpleText(a.reader, "Enter max attendees (empty for unlimited)", os.Stdout)
	if err != nil {
		return err
	}
	var maxAttendees int
	if maxText != "" {
		maxAttendees, err = strconv.Atoi(maxText)
		if err != nil || maxAttendees < 0 {
			fmt.Println("Invalid max attendees, expected a non-negative number")
			return nil
		}
	}

	in := models.CreateEventInput{
		Title:        title,
		Description:  description,
		Date:         date,
		Location:     location,
		Category:     models.EventCategory(category),
		MaxAttendees: maxAttendees,
		IsPublic:     true,
	}

	e, err := a.events.Create(ctx, in)
	if err != nil {
		return err
	}

	fmt.Println("Event created:", e.ID)
	return nil
}

// EditEvent prompts for the fields to change; empty answers leave the field
// untouched on the server.
func (a *App) EditEvent(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Usage: edit <id>")
		return nil
	}

	var in models.UpdateEventInput

	title, err := getSimpleText(a.reader, "Enter new title (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if title != "" {
		in.Title = &title
	}

	dateText, err := getSimpleText(a.reader, "Enter new date (YYYY-MM-DD HH:MM, empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if dateText != "" {
		date, err := time.ParseInLocation(dateLayout, dateText, time.Local)
		if err != nil {
			fmt.Println("Invalid date, expected format:", dateLayout)
			return nil
		}
		in.Date = &date
	}

	location, err := getSimpleText(a.reader, "Enter new location (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if location != "" {
		in.Location = &location
	}

	statusText, err := getSimpleText(a.reader, "Enter new status (upcoming|ongoing|completed|cancelled, empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if statusText != "" {
		status := models.EventStatus(statusText)
		in.Status = &status
	}

	e, err := a.events.Update(ctx, args[0], in)
	if err != nil {
		return err
	}

	fmt.Println("Event updated:", e.ID)
	return nil
}

// DeleteEvent asks for confirmation before deleting.
func (a *App) DeleteEvent(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Usage: delete <id>")
		return nil
	}

	answer, err := getSimpleText(a.reader, "Delete event "+args[0]+"? (y/n)", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "y" {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := a.events.Delete(ctx, args[0]); err != nil {
		return err
	}

	fmt.Println("Event deleted.")
	return nil
}

// RSVP records the user's attendance response to an event. Repeating the
// command with a different status replaces the earlier response; the server
// keeps one record per user.
func (a *App) RSVP(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Println("Usage: rsvp <id> <attending|maybe|not_attending>")
		return nil
	}

	status := models.RSVPStatus(args[1])
	if !models.ValidRSVPStatus(status) {
		fmt.Println("Invalid status, expected: attending, maybe or not_attending")
		return nil
	}

	e, err := a.events.RSVP(ctx, args[0], status)
	if err != nil {
		return err
	}

	fmt.Printf("RSVP recorded: %s (%d attending)\n", status, len(e.Attendees))
	return nil
}
