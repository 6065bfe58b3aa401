package therapyController

import (
	"context"
	"testing"
	"time"

	"painlog/internal/access"
	"painlog/internal/events"
	. "painlog/internal/models"
	"painlog/internal/repositories"
	"painlog/internal/services"
	"painlog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTherapies(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	sink := &testutil.RecordingSink{}

	controller := New(
		repositories.NewTherapy(db),
		access.New(repositories.NewCaregiverAccess(db)),
		services.NewTransactionService(db),
		events.NewWithSinks(sink),
	)
	controller.now = func() time.Time { return time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC) }

	tests := []struct {
		name     string
		caller   UserID
		request  CreateTherapyRequest
		wantKind ErrorKind
	}{
		{
			name:   "breathing session",
			caller: "patient-1",
			request: CreateTherapyRequest{
				UserID:        "patient-1",
				Type:          "breathing",
				Duration:      testutil.IntPtr(10),
				CompletedAt:   "2025-08-14T19:30:00Z",
				Effectiveness: testutil.IntPtr(4),
			},
		},
		{
			name:    "old heat session",
			caller:  "patient-1",
			request: CreateTherapyRequest{UserID: "patient-1", Type: "heat", CompletedAt: "2025-06-01T10:00:00Z"},
		},
		{
			name:     "effectiveness out of range",
			caller:   "patient-1",
			request:  CreateTherapyRequest{UserID: "patient-1", Type: "heat", Effectiveness: testutil.IntPtr(9)},
			wantKind: KindValidation,
		},
		{
			name:     "stranger",
			caller:   "someone",
			request:  CreateTherapyRequest{UserID: "patient-1", Type: "heat"},
			wantKind: KindAuthorizationDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			therapy, err := controller.Create(ctx, tt.caller, tt.request)
			if tt.wantKind != "" {
				assert.True(t, IsKind(err, tt.wantKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, therapy.ID)
		})
	}

	recent, err := controller.List(ctx, "patient-1", "patient-1", 30)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "breathing", recent[0].Type)

	all, err := controller.List(ctx, "patient-1", "patient-1", 120)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = controller.List(ctx, "someone", "patient-1", 30)
	assert.True(t, IsKind(err, KindAuthorizationDenied))

	assert.Equal(t, []string{events.TherapyCreated, events.TherapyCreated}, sink.Types())
}
