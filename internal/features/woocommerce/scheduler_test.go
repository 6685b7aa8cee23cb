package woocommerce

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

// stubSyncService satisfies SyncService for scheduler wiring tests. The
// scheduler never runs the jobs here, so the methods are inert.
type stubSyncService struct{}

func (s *stubSyncService) Available() bool { return true }
func (s *stubSyncService) SyncCustomers(ctx context.Context, incremental bool) (int, error) {
	return 0, nil
}
func (s *stubSyncService) SyncProducts(ctx context.Context, incremental bool) (int, error) {
	return 0, nil
}
func (s *stubSyncService) SyncOrders(ctx context.Context, incremental bool) (int, error) {
	return 0, nil
}
func (s *stubSyncService) RunFullSync(ctx context.Context) {}
func (s *stubSyncService) Status(ctx context.Context) (*SyncStatus, error) {
	return &SyncStatus{}, nil
}
func (s *stubSyncService) TestConnection(ctx context.Context) (*StoreInfo, error) {
	return &StoreInfo{}, nil
}
func (s *stubSyncService) GetSettings(ctx context.Context) (SyncSettings, error) {
	return DefaultSyncSettings(), nil
}
func (s *stubSyncService) UpdateSettings(ctx context.Context, update *SettingsUpdate, updatedBy string) (SyncSettings, error) {
	return DefaultSyncSettings(), nil
}

func TestDesiredJobs(t *testing.T) {
	tests := []struct {
		name     string
		settings SyncSettings
		want     map[string]string
	}{
		{
			name:     "defaults",
			settings: DefaultSyncSettings(),
			want: map[string]string{
				jobOrderSync:    "@every 15m",
				jobCustomerSync: "@every 30m",
				jobProductSync:  "@every 60m",
				jobFullSync:     "0 2 * * *",
			},
		},
		{
			name: "auto sync disabled",
			settings: SyncSettings{
				AutoSyncEnabled:      false,
				SyncOrdersEnabled:    true,
				SyncCustomersEnabled: true,
				SyncProductsEnabled:  true,
				SyncIntervalOrders:   15,
			},
			want: map[string]string{},
		},
		{
			name: "orders only",
			settings: SyncSettings{
				AutoSyncEnabled:    true,
				SyncOrdersEnabled:  true,
				SyncIntervalOrders: 5,
				FullSyncHour:       3,
			},
			want: map[string]string{
				jobOrderSync: "@every 5m",
				jobFullSync:  "0 3 * * *",
			},
		},
		{
			name: "all kinds disabled drops the full sync too",
			settings: SyncSettings{
				AutoSyncEnabled: true,
				FullSyncHour:    2,
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := desiredJobs(tt.settings)
			if len(got) != len(tt.want) {
				t.Fatalf("desiredJobs() = %v, want %v", got, tt.want)
			}
			for name, spec := range tt.want {
				if got[name] != spec {
					t.Errorf("job %s spec = %q, want %q", name, got[name], spec)
				}
			}
		})
	}
}

func TestReconcileRegistersJobs(t *testing.T) {
	scheduler := NewScheduler(&stubSyncService{}, zap.NewNop())

	scheduler.Reconcile(DefaultSyncSettings())

	jobs := scheduler.Jobs()
	if len(jobs) != 4 {
		t.Fatalf("jobs = %v, want 4 registered", jobs)
	}
	if jobs[jobOrderSync] != "@every 15m" {
		t.Errorf("order job spec = %q", jobs[jobOrderSync])
	}
}

func TestReconcileKeepsUnchangedJobs(t *testing.T) {
	scheduler := NewScheduler(&stubSyncService{}, zap.NewNop())

	settings := DefaultSyncSettings()
	scheduler.Reconcile(settings)
	customerEntry := scheduler.jobEntries[jobCustomerSync]
	orderEntry := scheduler.jobEntries[jobOrderSync]

	settings.SyncIntervalOrders = 5
	scheduler.Reconcile(settings)

	if got := scheduler.jobEntries[jobCustomerSync]; got.id != customerEntry.id {
		t.Errorf("customer job was rescheduled, want entry %d kept", customerEntry.id)
	}
	got := scheduler.jobEntries[jobOrderSync]
	if got.spec != "@every 5m" {
		t.Errorf("order job spec = %q, want @every 5m", got.spec)
	}
	if got.id == orderEntry.id {
		t.Error("order job must get a fresh entry for the new interval")
	}
}

func TestReconcileRemovesDisabledJobs(t *testing.T) {
	scheduler := NewScheduler(&stubSyncService{}, zap.NewNop())

	settings := DefaultSyncSettings()
	scheduler.Reconcile(settings)

	settings.AutoSyncEnabled = false
	scheduler.Reconcile(settings)

	if jobs := scheduler.Jobs(); len(jobs) != 0 {
		t.Errorf("jobs = %v, want all removed when auto sync is off", jobs)
	}

	// Re-enabling brings the schedule back.
	settings.AutoSyncEnabled = true
	scheduler.Reconcile(settings)
	if jobs := scheduler.Jobs(); len(jobs) != 4 {
		t.Errorf("jobs = %v, want the full schedule restored", jobs)
	}
}

func TestReconcilePartialDisable(t *testing.T) {
	scheduler := NewScheduler(&stubSyncService{}, zap.NewNop())

	settings := DefaultSyncSettings()
	scheduler.Reconcile(settings)

	settings.SyncProductsEnabled = false
	scheduler.Reconcile(settings)

	jobs := scheduler.Jobs()
	if _, ok := jobs[jobProductSync]; ok {
		t.Error("product job must be removed when products sync is disabled")
	}
	if _, ok := jobs[jobFullSync]; !ok {
		t.Error("full sync must stay while any kind is still enabled")
	}
	if len(jobs) != 3 {
		t.Errorf("jobs = %v, want 3", jobs)
	}
}
