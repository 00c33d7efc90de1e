package usecase

import (
	"context"
	"orphancare/domain"
	"testing"
	"time"
)

func TestReconcile(t *testing.T) {
	reviewedAt := fixedAt.Add(time.Hour)
	reviewer := admin.UserID

	drifted := availableChild("c1") // pending request, stored available
	adopted := availableChild("c2") // approved request, stored available
	clean := availableChild("c3")   // no requests
	orphan := availableChild("c4")  // no requests, stored pending
	orphan.AdoptionStatus = domain.ChildPending
	drifted.Name, adopted.Name, clean.Name, orphan.Name = "Dina", "Ari", "Cleo", "Bo"

	children := newFakeChildRepo(drifted, adopted, clean, orphan)
	requests := newFakeAdoptionRepo()
	requests.requests["r1"] = domain.AdoptionRequest{ID: "r1", ChildID: "c1", Status: domain.RequestPending, CreatedAt: fixedAt}
	requests.requests["r2"] = domain.AdoptionRequest{ID: "r2", ChildID: "c2", Status: domain.RequestRejected, CreatedAt: fixedAt}
	requests.requests["r3"] = domain.AdoptionRequest{ID: "r3", ChildID: "c2", Status: domain.RequestApproved, CreatedAt: fixedAt.Add(-time.Hour), ReviewedAt: &reviewedAt, ReviewedByID: &reviewer}

	uc := NewReconcileUseCase(children, requests)

	report, err := uc.Reconcile(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report) != 3 {
		t.Fatalf("expected 3 drifts, got %+v", report)
	}
	want := []struct {
		id       string
		expected domain.AdoptionStatus
		last     string
	}{
		{"c2", domain.ChildAdopted, "r3"},
		{"c4", domain.ChildAvailable, ""},
		{"c1", domain.ChildPending, "r1"},
	}
	for i, w := range want {
		d := report[i]
		if d.ChildID != w.id || d.Expected != w.expected || d.LastRequestID != w.last || d.Fixed {
			t.Errorf("drift %d: got %+v, want %+v", i, d, w)
		}
	}
	if len(children.updates) != 0 {
		t.Errorf("report-only run must not write")
	}

	fixed, err := uc.Reconcile(context.Background(), true)
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	for _, d := range fixed {
		if !d.Fixed {
			t.Errorf("expected %s fixed", d.ChildID)
		}
	}
	if got, _ := children.FindByID(context.Background(), "c2"); got.AdoptionStatus != domain.ChildAdopted {
		t.Errorf("expected c2 adopted, got %s", got.AdoptionStatus)
	}

	again, err := uc.Reconcile(context.Background(), false)
	if err != nil || len(again) != 0 {
		t.Errorf("expected no drift after fix, got %+v (%v)", again, err)
	}
}
