package proposalsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/logx"
)

// ExpirySweeper servicio de expiración en background: barre las
// propuestas Requested cuyos horarios ya pasaron y las transiciona a
// Expired a través del engine, para que las notificaciones también se
// emitan en las expiraciones
type ExpirySweeper struct {
	service  *SchedulingService
	interval time.Duration
}

// NewExpirySweeper crea un nuevo sweeper con el intervalo dado
func NewExpirySweeper(service *SchedulingService, interval time.Duration) *ExpirySweeper {
	return &ExpirySweeper{
		service:  service,
		interval: interval,
	}
}

// Start inicia el sweep periódico; retorna cuando el contexto se cancela
func (s *ExpirySweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Barrida inicial al arrancar
	s.runSweep(ctx)

	for {
		select {
		case <-ctx.Done():
			logx.Info("Expiry sweeper stopped")
			return
		case <-ticker.C:
			s.runSweep(ctx)
		}
	}
}

func (s *ExpirySweeper) runSweep(ctx context.Context) {
	expired, err := s.service.ExpireDue(ctx)
	if err != nil {
		logx.Errorf("Expiry sweep failed: %v", err)
		return
	}
	if expired > 0 {
		logx.Infof("Expiry sweep: %d proposal(s) expired", expired)
	}
}
