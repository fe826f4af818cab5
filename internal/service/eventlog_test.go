package service

import (
	"context"
	"testing"
	"time"

	pc "parachute_control"
)

func TestEventLogList_InvalidRange(t *testing.T) {
	svc := NewEventLogService(&fakeEventRepo{})

	_, err := svc.List(context.Background(), LogFilter{
		From: time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Fatalf("expected error for From > To")
	}
}

func TestEventLogList_NormalizesTypeAndFilters(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeEventRepo{events: []pc.ChuteEvent{
		{EventID: "a", OccurredAt: at, Type: pc.EventRelease},
		{EventID: "b", OccurredAt: at.Add(time.Hour), Type: pc.EventRejected},
	}}
	svc := NewEventLogService(repo)

	events, err := svc.List(context.Background(), LogFilter{Type: "  rejected "})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 1 || events[0].EventID != "b" {
		t.Fatalf("unexpected result: %+v", events)
	}
}
