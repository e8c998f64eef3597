package core_test

import (
	"context"
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"health_service/internal/domain/model"
)

func approx() cmp.Option {
	return cmpopts.EquateApprox(1e-9, 1e-9)
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []model.ClassificationRecord
	err     error
}

func (r *fakeRecorder) SaveClassification(ctx context.Context, record model.ClassificationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return r.err
}

type fakeVisualizer struct {
	reports []model.TrainingReport
}

func (v *fakeVisualizer) Export(ctx context.Context, report model.TrainingReport) error {
	v.reports = append(v.reports, report)
	return nil
}
