package mirror

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"go.uber.org/zap"

	"github.com/cipherhire/cipherhire-backend/internal/model"
	"github.com/cipherhire/cipherhire-backend/internal/registry"
)

func TestService_run(t *testing.T) {
	t.Parallel()

	at := time.Unix(1714000000, 0)

	type fields struct {
		registry Registry
		writer   SnapshotWriter
		metrics  Metrics
	}
	tests := []struct {
		name    string
		prepare func(ctrl *gomock.Controller) fields
		wantErr bool
	}{
		{
			name: "mirrors loaded candidates",
			prepare: func(ctrl *gomock.Controller) fields {
				reg := NewMockRegistry(ctrl)
				writer := NewMockSnapshotWriter(ctrl)
				metrics := NewMockMetrics(ctrl)
				ctx := context.Background()

				list := []model.Candidate{
					{ID: "a", Score: 80, Timestamp: at.Unix(), Status: model.StatusScreening},
					{ID: "b", Score: 60, Timestamp: at.Unix(), Status: model.StatusHired},
				}

				reg.EXPECT().Reconcile(ctx).Return(registry.ReconcileReport{}, nil)
				reg.EXPECT().LoadAll(ctx).Return(list, nil)
				writer.EXPECT().Write(ctx, gomock.AssignableToTypeOf(model.CandidateSnapshot{})).Return(nil).Times(2)
				metrics.EXPECT().ObserveSync(nil, 2, gomock.Any())

				return fields{registry: reg, writer: writer, metrics: metrics}
			},
		},
		{
			name: "returns reconcile error",
			prepare: func(ctrl *gomock.Controller) fields {
				reg := NewMockRegistry(ctrl)
				metrics := NewMockMetrics(ctrl)
				ctx := context.Background()
				reconcileErr := errors.New("reconcile failed")

				reg.EXPECT().Reconcile(ctx).Return(registry.ReconcileReport{}, reconcileErr)
				metrics.EXPECT().ObserveSync(reconcileErr, 0, gomock.Any())

				return fields{registry: reg, writer: NewMockSnapshotWriter(ctrl), metrics: metrics}
			},
			wantErr: true,
		},
		{
			name: "returns load error",
			prepare: func(ctrl *gomock.Controller) fields {
				reg := NewMockRegistry(ctrl)
				metrics := NewMockMetrics(ctrl)
				ctx := context.Background()
				loadErr := errors.New("load failed")

				reg.EXPECT().Reconcile(ctx).Return(registry.ReconcileReport{}, nil)
				reg.EXPECT().LoadAll(ctx).Return(nil, loadErr)
				metrics.EXPECT().ObserveSync(loadErr, 0, gomock.Any())

				return fields{registry: reg, writer: NewMockSnapshotWriter(ctrl), metrics: metrics}
			},
			wantErr: true,
		},
		{
			name: "returns write error",
			prepare: func(ctrl *gomock.Controller) fields {
				reg := NewMockRegistry(ctrl)
				writer := NewMockSnapshotWriter(ctrl)
				metrics := NewMockMetrics(ctrl)
				ctx := context.Background()
				writeErr := errors.New("write failed")

				reg.EXPECT().Reconcile(ctx).Return(registry.ReconcileReport{Finished: 1}, nil)
				reg.EXPECT().LoadAll(ctx).Return([]model.Candidate{{ID: "a"}}, nil)
				writer.EXPECT().Write(ctx, gomock.Any()).Return(writeErr)
				metrics.EXPECT().ObserveSync(writeErr, 0, gomock.Any())

				return fields{registry: reg, writer: writer, metrics: metrics}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			t.Cleanup(ctrl.Finish)

			fields := tt.prepare(ctrl)
			svc := &Service{
				logger:       zap.NewNop(),
				registry:     fields.registry,
				writer:       fields.writer,
				metrics:      fields.metrics,
				sleep:        func(context.Context, time.Duration) error { return nil },
				now:          func() time.Time { return at },
				syncInterval: time.Millisecond,
				errorBackoff: time.Millisecond,
			}
			if err := svc.run(context.Background()); (err != nil) != tt.wantErr {
				t.Fatalf("run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
