package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rentova-solution/contract-workflow-service/internal/model"
	"github.com/rentova-solution/contract-workflow-service/internal/monitoring"
	"github.com/rentova-solution/contract-workflow-service/internal/workflow"
)

// ActivationWorker drives the clock transitions no request triggers:
// SIGNED -> ACTIVE once the start date passes, and completing fully
// consented normal-expiry terminations once the end date passes.
type ActivationWorker struct {
	repo     Repository
	interval time.Duration
	now      func() time.Time
	stop     chan struct{}
	done     chan struct{}
}

func NewActivationWorker(repo Repository, interval time.Duration) *ActivationWorker {
	return &ActivationWorker{
		repo:     repo,
		interval: interval,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the background sweep until Stop is called.
func (w *ActivationWorker) Start() {
	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.RunOnce(context.Background())
			case <-w.stop:
				return
			}
		}
	}()
}

// Stop halts the worker and waits for the current sweep to finish.
func (w *ActivationWorker) Stop() {
	close(w.stop)
	<-w.done
}

// RunOnce performs a single sweep.
func (w *ActivationWorker) RunOnce(ctx context.Context) {
	w.activateDue(ctx)
	w.expireDue(ctx)
}

func (w *ActivationWorker) activateDue(ctx context.Context) {
	due, err := w.repo.ListDueForActivation(ctx, w.now())
	if err != nil {
		monitoring.Alert("activation sweep failed", map[string]string{"error": err.Error()})
		return
	}
	for i := range due {
		c := &due[i]
		if !workflow.CanActivate(c, w.now()) {
			continue
		}
		if err := w.repo.UpdateContractStatus(ctx, c.ID, model.StatusSigned, model.StatusActive); err != nil {
			log.Error().Err(err).Str("contract_id", c.ID.String()).Msg("Failed to activate contract")
			continue
		}
		log.Info().Str("contract_id", c.ID.String()).Msg("Contract activated")

		// First rent period invoice.
		periodStart := c.StartDate
		periodEnd := periodStart.AddDate(0, 1, 0)
		if periodEnd.After(c.EndDate) {
			periodEnd = c.EndDate
		}
		inv := &model.Invoice{
			ContractID:  c.ID,
			Kind:        model.InvoiceContract,
			Amount:      c.RentAmount,
			Description: "Rent for first period",
			PeriodStart: &periodStart,
			PeriodEnd:   &periodEnd,
			Status:      model.InvoiceIssued,
		}
		if err := w.repo.CreateInvoice(ctx, inv); err != nil {
			monitoring.Alert("first rent invoice failed", map[string]string{
				"contract_id": c.ID.String(),
				"error":       err.Error(),
			})
		}
	}
}

func (w *ActivationWorker) expireDue(ctx context.Context) {
	approved, err := w.repo.ListApprovedExpirations(ctx, w.now())
	if err != nil {
		monitoring.Alert("expiry sweep failed", map[string]string{"error": err.Error()})
		return
	}
	for i := range approved {
		req := &approved[i]
		if err := w.repo.CompleteTermination(ctx, req.ID, req.ContractID, model.StatusExpired); err != nil {
			log.Error().Err(err).Str("request_id", req.ID.String()).Msg("Failed to complete approved expiry")
			continue
		}
		monitoring.TerminationsCompleted.WithLabelValues(string(model.StatusExpired)).Inc()
		log.Info().Str("contract_id", req.ContractID.String()).Msg("Contract expired at end date")
	}
}
