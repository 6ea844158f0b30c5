package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dmitrijs2005/eventhub/internal/client/models"
)

// Filter edits the listing filters. Called with no arguments it prompts for
// each field; "filter reset" restores the defaults. The result is persisted
// so the next run of the client starts with the same view.
func (a *App) Filter(ctx context.Context, args []string) error {
	if len(args) == 1 && args[0] == "reset" {
		a.filters = models.DefaultFilters()
		a.saveFilters(ctx)
		fmt.Println("Filters reset.")
		return nil
	}

	search, err := getSimpleText(a.reader, "Search term (empty for none)", os.Stdout)
	if err != nil {
		return err
	}

	category, err := getSimpleText(a.reader, "Category (Conference|Workshop|Meetup|Seminar|Other, empty for all)", os.Stdout)
	if err != nil {
		return err
	}

	status, err := getSimpleText(a.reader, "Status (upcoming|ongoing|completed|cancelled, empty for all)", os.Stdout)
	if err != nil {
		return err
	}

	a.filters.SearchTerm = search
	a.filters.Category = category
	a.filters.Status = status
	a.filters.Page = 1
	a.saveFilters(ctx)

	fmt.Println("Filters updated.")
	return nil
}

// Page jumps to the given listing page.
func (a *App) Page(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("Usage: page <n>")
		return nil
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		fmt.Println("Invalid page number")
		return nil
	}

	a.filters.Page = n
	a.saveFilters(ctx)
	return a.ListEvents(ctx)
}
