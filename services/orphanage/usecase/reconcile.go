package usecase

import (
	"context"
	"orphancare/config"
	"orphancare/domain"
	"sort"

	"github.com/sirupsen/logrus"
)

type reconcileUseCase struct {
	children domain.ChildRepo
	requests domain.AdoptionRepo
}

// NewReconcileUseCase compares every child's stored status with the status
// implied by its most recently touched adoption request.
func NewReconcileUseCase(children domain.ChildRepo, requests domain.AdoptionRepo) domain.ReconcileUseCase {
	return &reconcileUseCase{
		children: children,
		requests: requests,
	}
}

func (ruc *reconcileUseCase) Reconcile(ctx context.Context, fix bool) ([]domain.ChildDrift, error) {
	children, err := ruc.children.List(ctx, "")
	if err != nil {
		return nil, err
	}
	latest, err := ruc.requests.LatestRequests(ctx)
	if err != nil {
		return nil, err
	}

	var drifts []domain.ChildDrift
	for _, c := range children {
		var last *domain.AdoptionRequest
		if r, ok := latest[c.ID]; ok {
			last = &r
		}
		expected := domain.ExpectedChildStatus(last)
		if expected == c.AdoptionStatus {
			continue
		}

		d := domain.ChildDrift{
			ChildID:   c.ID,
			ChildName: c.Name,
			Stored:    c.AdoptionStatus,
			Expected:  expected,
		}
		if last != nil {
			d.LastRequestID = last.ID
		}

		if fix {
			err := ruc.children.Update(ctx, c.ID, map[string]interface{}{"adoption_status": expected})
			if err != nil {
				return drifts, err
			}
			d.Fixed = true
			config.GetLogrusInstance().WithFields(logrus.Fields{
				"child": c.ID,
				"from":  c.AdoptionStatus,
				"to":    expected,
			}).Info("child status reconciled")
		}
		drifts = append(drifts, d)
	}

	sort.Slice(drifts, func(i, j int) bool { return drifts[i].ChildName < drifts[j].ChildName })
	return drifts, nil
}
