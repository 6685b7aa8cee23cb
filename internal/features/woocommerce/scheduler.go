package woocommerce

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	jobOrderSync    = "wc_order_sync"
	jobCustomerSync = "wc_customer_sync"
	jobProductSync  = "wc_product_sync"
	jobFullSync     = "wc_full_sync"
)

type jobEntry struct {
	id   cron.EntryID
	spec string
}

// Scheduler drives the background syncs according to the stored settings.
// Reconcile diffs the desired schedule against the registered entries, so a
// settings change never tears down jobs that did not change.
type Scheduler struct {
	service SyncService
	logger  *zap.Logger

	scheduler  *cron.Cron
	jobEntries map[string]jobEntry
	mu         sync.Mutex
}

func NewScheduler(service SyncService, logger *zap.Logger) *Scheduler {
	cronLogger := &cronZapLogger{logger: logger.Named("cron")}
	return &Scheduler{
		service: service,
		logger:  logger,
		scheduler: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cronLogger),
			cron.Recover(cronLogger),
		)),
		jobEntries: make(map[string]jobEntry),
	}
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
	s.logger.Info("WooCommerce sync scheduler started")
}

func (s *Scheduler) Stop() {
	ctx := s.scheduler.Stop()
	<-ctx.Done()
	s.logger.Info("WooCommerce sync scheduler stopped")
}

// Reconcile brings the registered jobs in line with the settings. Jobs whose
// spec did not change keep their entry and their next-run time.
func (s *Scheduler) Reconcile(settings SyncSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	desired := desiredJobs(settings)

	for name, entry := range s.jobEntries {
		if spec, keep := desired[name]; !keep || spec != entry.spec {
			s.scheduler.Remove(entry.id)
			delete(s.jobEntries, name)
			s.logger.Info("unscheduled sync job", zap.String("job", name))
		}
	}

	for name, spec := range desired {
		if _, exists := s.jobEntries[name]; exists {
			continue
		}
		id, err := s.scheduler.AddFunc(spec, s.jobFunc(name))
		if err != nil {
			s.logger.Error("failed to schedule sync job",
				zap.String("job", name), zap.String("spec", spec), zap.Error(err))
			continue
		}
		s.jobEntries[name] = jobEntry{id: id, spec: spec}
		s.logger.Info("scheduled sync job",
			zap.String("job", name), zap.String("spec", spec))
	}
}

// Jobs returns the registered job names and their specs.
func (s *Scheduler) Jobs() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make(map[string]string, len(s.jobEntries))
	for name, entry := range s.jobEntries {
		jobs[name] = entry.spec
	}
	return jobs
}

// desiredJobs maps job names to cron specs for the given settings. Disabling
// auto sync empties the schedule without stopping the scheduler itself.
func desiredJobs(settings SyncSettings) map[string]string {
	desired := make(map[string]string)
	if !settings.AutoSyncEnabled {
		return desired
	}

	if settings.SyncOrdersEnabled {
		desired[jobOrderSync] = fmt.Sprintf("@every %dm", settings.SyncIntervalOrders)
	}
	if settings.SyncCustomersEnabled {
		desired[jobCustomerSync] = fmt.Sprintf("@every %dm", settings.SyncIntervalCustomers)
	}
	if settings.SyncProductsEnabled {
		desired[jobProductSync] = fmt.Sprintf("@every %dm", settings.SyncIntervalProducts)
	}
	if settings.SyncOrdersEnabled || settings.SyncCustomersEnabled || settings.SyncProductsEnabled {
		desired[jobFullSync] = fmt.Sprintf("0 %d * * *", settings.FullSyncHour)
	}
	return desired
}

func (s *Scheduler) jobFunc(name string) func() {
	switch name {
	case jobOrderSync:
		return func() { s.runIncremental(name, s.service.SyncOrders) }
	case jobCustomerSync:
		return func() { s.runIncremental(name, s.service.SyncCustomers) }
	case jobProductSync:
		return func() { s.runIncremental(name, s.service.SyncProducts) }
	case jobFullSync:
		return func() {
			s.logger.Info("starting scheduled full sync")
			s.service.RunFullSync(context.Background())
		}
	default:
		return func() {}
	}
}

func (s *Scheduler) runIncremental(name string, syncFn func(context.Context, bool) (int, error)) {
	s.logger.Info("starting scheduled sync", zap.String("job", name))
	processed, err := syncFn(context.Background(), true)
	if err != nil {
		// runSync already logged the failure with the full detail.
		return
	}
	s.logger.Info("scheduled sync completed",
		zap.String("job", name), zap.Int("records_processed", processed))
}

// cronZapLogger adapts zap to the logger interface the cron wrappers expect.
type cronZapLogger struct {
	logger *zap.Logger
}

func (l *cronZapLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Infow(msg, keysAndValues...)
}

func (l *cronZapLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
