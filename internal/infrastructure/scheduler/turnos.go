// Package scheduler dispara el cierre automático de turnos.
//
// Es un loop de chequeo por intervalo (no un cron embebido): cada tick le
// pide al caso de uso cerrar las instancias de turno ya vencidas. El caso de
// uso es idempotente por la unicidad del cierre en base, así que un tick que
// repite trabajo termina en no-ops; un tick que encontró fallas las deja
// registradas y el siguiente las reintenta. Este componente es el único que
// lee el reloj del sistema: hacia abajo la hora viaja como parámetro.
package scheduler

import (
	"context"
	"sync"
	"time"

	appcierre "github.com/jhoicas/Cierres-api/internal/application/cierre"
	"github.com/jhoicas/Cierres-api/pkg/logger"
)

// CierreTurnos trigger periódico del cierre de turnos.
type CierreTurnos struct {
	uc        *appcierre.CerrarTurnoUseCase
	intervalo time.Duration
	log       *logger.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewCierreTurnos construye el trigger. intervalo <= 0 usa un minuto.
func NewCierreTurnos(uc *appcierre.CerrarTurnoUseCase, intervalo time.Duration, log *logger.Logger) *CierreTurnos {
	if intervalo <= 0 {
		intervalo = time.Minute
	}
	return &CierreTurnos{uc: uc, intervalo: intervalo, log: log}
}

// Start arranca el loop en background. Llamadas repetidas son no-ops.
func (c *CierreTurnos) Start(ctx context.Context) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	c.wg.Add(1)
	go c.loop(ctx)
	c.log.Info().Dur("intervalo", c.intervalo).Msg("scheduler de cierres de turno iniciado")
}

// Stop detiene el loop y espera a que el tick en curso termine.
func (c *CierreTurnos) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.cancel()
	c.mu.Unlock()

	c.wg.Wait()
	c.log.Info().Msg("scheduler de cierres de turno detenido")
}

func (c *CierreTurnos) loop(ctx context.Context) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.intervalo)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ahora := <-ticker.C:
			resumen := c.uc.CerrarTurnosVencidos(ctx, ahora)
			if resumen.Cerrados > 0 || resumen.Fallidos > 0 {
				c.log.Info().
					Int("cerrados", resumen.Cerrados).
					Int("ya_cerrados", resumen.YaCerrados).
					Int("fallidos", resumen.Fallidos).
					Msg("tick de cierres de turno")
			}
		}
	}
}
