// Package jobs tareas de mantenimiento programadas con cron.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
)

// SessionPurger borra sesiones y OTPs vencidos. Lo implementa auth.AuthUseCase.
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (sessions, otps int64, err error)
}

// Scheduler envoltorio de cron con logging.
type Scheduler struct {
	cron    *cron.Cron
	log     *logger.Logger
	timeout time.Duration
}

// NewScheduler crea el planificador; las ejecuciones solapadas se descartan.
func NewScheduler(l *logger.Logger) *Scheduler {
	if l == nil {
		l = logger.Nop()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger))),
		log:     l.Component("jobs"),
		timeout: time.Minute,
	}
}

// AddSessionPurge programa la purga con la expresión indicada (ej. "@every 15m").
func (s *Scheduler) AddSessionPurge(schedule string, p SessionPurger) error {
	_, err := s.cron.AddFunc(schedule, func() { s.runPurge(p) })
	if err != nil {
		return fmt.Errorf("jobs: programar purga de sesiones %q: %w", schedule, err)
	}
	s.log.Info().Str("schedule", schedule).Msg("purga de sesiones programada")
	return nil
}

func (s *Scheduler) runPurge(p SessionPurger) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	sessions, otps, err := p.PurgeExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("purga de sesiones fallida")
		return
	}
	s.log.Info().
		Int64("sessions", sessions).
		Int64("otps", otps).
		Dur("took", time.Since(start)).
		Msg("purga de sesiones completada")
}

// Start arranca el planificador en segundo plano.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop detiene el planificador y espera a que terminen las tareas en curso o venza ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("tareas en curso no terminaron antes del apagado")
	}
}
