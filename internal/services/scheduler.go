package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"lotto-happy/internal/metrics"
	"lotto-happy/internal/models"
	"lotto-happy/internal/session"
	"lotto-happy/internal/stats"
)

const (
	sweepSpec = "@every 1m"
	riskSpec  = "@every 15m"
)

// Scheduler runs the periodic housekeeping jobs.
type Scheduler struct {
	cron     *cron.Cron
	local    *LocalBook
	admin    *Admin
	notifier Notifier
	token    string
	log      *zap.Logger

	mu       sync.Mutex
	notified map[string]bool
}

// NewScheduler wires the jobs. local may be nil; token authenticates the
// risk sweep against the backend.
func NewScheduler(local *LocalBook, admin *Admin, n Notifier, serviceToken string, log *zap.Logger) (*Scheduler, error) {
	if n == nil {
		n = NopNotifier{}
	}
	s := &Scheduler{
		cron:     cron.New(),
		local:    local,
		admin:    admin,
		notifier: n,
		token:    serviceToken,
		log:      log.Named("scheduler"),
		notified: map[string]bool{},
	}
	if local != nil {
		if _, err := s.cron.AddFunc(sweepSpec, func() { s.run("sweep_draws", s.SweepDraws) }); err != nil {
			return nil, fmt.Errorf("schedule sweep: %w", err)
		}
	}
	if _, err := s.cron.AddFunc(riskSpec, func() { s.run("risk_alert", s.RiskAlert) }); err != nil {
		return nil, fmt.Errorf("schedule risk alert: %w", err)
	}
	return s, nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() { <-s.cron.Stop().Done() }

func (s *Scheduler) run(name string, job func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = session.With(ctx, session.Session{Token: s.token, UserID: "scheduler", Role: models.RoleAdmin, Verified: true})

	err := job(ctx)
	metrics.RecordJob(name, err == nil)
	if err != nil {
		s.log.Error("job failed", zap.String("job", name), zap.Error(err))
	}
}

func (s *Scheduler) SweepDraws(ctx context.Context) error {
	n, err := s.local.SweepStatuses(ctx)
	if n > 0 {
		s.log.Info("draws moved to pending", zap.Int("count", n))
	}
	return err
}

// RiskAlert refreshes the risk gauges and notifies each critical
// combination once. Combinations that left the report, such as those of
// settled draws, are forgotten.
func (s *Scheduler) RiskAlert(ctx context.Context) error {
	rep, err := s.admin.RiskReport(ctx, stats.PeriodAll, 0)
	if err != nil {
		return err
	}
	metrics.SetRiskLevels(rep.Summary.Levels())

	s.mu.Lock()
	defer s.mu.Unlock()
	critical := make(map[string]bool, len(rep.Combinations))
	for _, c := range rep.Combinations {
		if c.Level == stats.RiskCritical {
			critical[c.Key] = true
		}
	}
	for key := range s.notified {
		if !critical[key] {
			delete(s.notified, key)
		}
	}
	for _, c := range rep.Combinations {
		if c.Level != stats.RiskCritical || s.notified[c.Key] {
			continue
		}
		s.notified[c.Key] = true
		s.notifier.Notify(ctx, fmt.Sprintf("⚠️ Risque critique sur %s (%s): numéros %s, %d tickets, mise %d, gain potentiel %d",
			c.OperatorID, c.DrawAt.Format("2006-01-02 15:04"), joinNumbers(c.Numbers), c.Count, c.TotalAmount, c.PotentialPayout))
	}
	return nil
}
