package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lizdek/lizdek-api/pkg/core/domain"
	"github.com/lizdek/lizdek-api/pkg/ports"
)

func showInput(date string) ports.ShowInput {
	return ports.ShowInput{
		Venue:         "Red Rocks",
		City:          "Morrison",
		StateProvince: "CO",
		Country:       "USA",
		TicketLink:    strPtr("https://tickets.example/rr"),
		ShowDate:      date,
	}
}

func TestShowService_Upcoming(t *testing.T) {
	store := newStore(t)
	// 23:30 in UTC-7 is already the next day in UTC.
	clock := func() time.Time {
		return time.Date(2025, 6, 14, 23, 30, 0, 0, time.FixedZone("MST", -7*3600))
	}
	svc := NewShowService(store).WithClock(clock)
	ctx := context.Background()

	for _, d := range []string{"2025-06-14", "2025-06-15", "2025-07-01", "2024-01-01"} {
		if _, err := svc.CreateShow(ctx, showInput(d)); err != nil {
			t.Fatalf("CreateShow(%s): %v", d, err)
		}
	}

	up, err := svc.UpcomingShows(ctx)
	if err != nil {
		t.Fatalf("UpcomingShows: %v", err)
	}
	if up.Count != len(up.Shows) || up.Count != 2 || !up.HasUpcomingShows {
		t.Fatalf("upcoming = %+v", up)
	}
	if up.Shows[0].ShowDate.String() != "2025-06-15" || up.Shows[1].ShowDate.String() != "2025-07-01" {
		t.Errorf("upcoming order = %s, %s", up.Shows[0].ShowDate, up.Shows[1].ShowDate)
	}

	later := NewShowService(store).WithClock(func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) })
	none, err := later.UpcomingShows(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if none.Count != 0 || none.HasUpcomingShows || none.Shows == nil {
		t.Errorf("no upcoming = %+v", none)
	}
}

func TestShowService_Validation(t *testing.T) {
	svc := NewShowService(newStore(t))

	tests := []struct {
		name   string
		mutate func(*ports.ShowInput)
		msg    string
	}{
		{"missing venue", func(in *ports.ShowInput) { in.Venue = "" }, "Venue is required and must be a non-empty string"},
		{"blank city", func(in *ports.ShowInput) { in.City = " " }, "City is required and must be a non-empty string"},
		{"missing state", func(in *ports.ShowInput) { in.StateProvince = "" }, "State/province is required and must be a non-empty string"},
		{"missing country", func(in *ports.ShowInput) { in.Country = "" }, "Country is required and must be a non-empty string"},
		{"invalid date", func(in *ports.ShowInput) { in.ShowDate = "invalid-date" }, "Show date is required and must be a valid date"},
		{"long venue", func(in *ports.ShowInput) { in.Venue = strings.Repeat("a", 201) }, "Venue must be 200 characters or less"},
		{"long city", func(in *ports.ShowInput) { in.City = strings.Repeat("a", 101) }, "City must be 100 characters or less"},
		{"long ticket link", func(in *ports.ShowInput) { in.TicketLink = strPtr(strings.Repeat("a", 501)) }, "Ticket link must be 500 characters or less"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := showInput("2025-01-01")
			tt.mutate(&in)
			_, err := svc.CreateShow(context.Background(), in)
			wantKind(t, err, domain.KindValidation, tt.msg)
		})
	}
}

func TestShowService_CRUD(t *testing.T) {
	svc := NewShowService(newStore(t))
	ctx := context.Background()

	in := showInput("2025-03-01")
	in.TicketLink = strPtr("")
	created, err := svc.CreateShow(ctx, in)
	if err != nil {
		t.Fatalf("CreateShow: %v", err)
	}
	if created.TicketLink != nil {
		t.Errorf("empty ticket link stored as %q", *created.TicketLink)
	}

	in.Venue = "The Fillmore"
	updated, err := svc.UpdateShow(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("UpdateShow: %v", err)
	}
	if updated.Venue != "The Fillmore" {
		t.Errorf("Venue = %q", updated.Venue)
	}

	_, err = svc.UpdateShow(ctx, 9999, in)
	wantKind(t, err, domain.KindNotFound, "Show not found")

	if err := svc.DeleteShow(ctx, created.ID); err != nil {
		t.Fatalf("DeleteShow: %v", err)
	}
	wantKind(t, svc.DeleteShow(ctx, created.ID), domain.KindNotFound, "Show not found")

	_, err = svc.GetShow(ctx, created.ID)
	wantKind(t, err, domain.KindNotFound, "Show not found")
}
