package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"avicola/internal/cache"
	"avicola/internal/dto"
	"avicola/internal/model"
	"avicola/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type AlertaService interface {
	// Obtener returns the cached snapshot when present, computing it otherwise.
	Obtener(ctx context.Context) (*dto.AlertasResponse, error)
	Calcular(ctx context.Context) (*dto.AlertasResponse, error)
	// Notificar records one notification per alert group and enqueues a digest
	// email. Nothing is recorded when there are no alerts.
	Notificar(ctx context.Context) (*dto.NotificarAlertasResponse, error)

	ListarNotificaciones(ctx context.Context, soloNoLeidas bool, limit int) ([]dto.NotificacionResponse, error)
	MarcarLeida(ctx context.Context, id uuid.UUID) error
}

type AlertasConfig struct {
	DiasVencimiento int
	CacheTTL        time.Duration
	// Destinatarios overrides the supervisor/administrador recipients.
	Destinatarios []string
}

type alertaService struct {
	productoRepo repository.ProductoRepository
	facturaRepo  repository.FacturaRepository
	notifRepo    repository.NotificacionRepository
	usuarioRepo  repository.UsuarioRepository
	cache        cache.AlertasCache
	emails       EmailQueue
	cfg          AlertasConfig
}

func NewAlertaService(
	productoRepo repository.ProductoRepository,
	facturaRepo repository.FacturaRepository,
	notifRepo repository.NotificacionRepository,
	usuarioRepo repository.UsuarioRepository,
	c cache.AlertasCache,
	emails EmailQueue,
	cfg AlertasConfig,
) AlertaService {
	if c == nil {
		c = cache.NoopAlertasCache{}
	}
	if cfg.DiasVencimiento <= 0 {
		cfg.DiasVencimiento = 30
	}
	return &alertaService{
		productoRepo: productoRepo,
		facturaRepo:  facturaRepo,
		notifRepo:    notifRepo,
		usuarioRepo:  usuarioRepo,
		cache:        c,
		emails:       emails,
		cfg:          cfg,
	}
}

func (s *alertaService) Obtener(ctx context.Context) (*dto.AlertasResponse, error) {
	if snap, ok, err := s.cache.Get(ctx); err != nil {
		log.Warn().Err(err).Msg("alertas: lectura de cache fallida")
	} else if ok {
		return snap, nil
	}
	snap, err := s.Calcular(ctx)
	if err != nil {
		return nil, err
	}
	s.guardar(ctx, snap)
	return snap, nil
}

func (s *alertaService) Calcular(ctx context.Context) (*dto.AlertasResponse, error) {
	bajos, err := s.productoRepo.ListStockBajo(ctx)
	if err != nil {
		return nil, err
	}
	agotados, err := s.productoRepo.ListAgotados(ctx)
	if err != nil {
		return nil, err
	}
	ahora := time.Now().UTC()
	vencidas, err := s.facturaRepo.ListVencidas(ctx, ahora.AddDate(0, 0, -s.cfg.DiasVencimiento))
	if err != nil {
		return nil, err
	}

	resp := &dto.AlertasResponse{
		StockBajo:        make([]dto.ProductoAlerta, 0, len(bajos)),
		Agotados:         make([]dto.ProductoAlerta, 0, len(agotados)),
		FacturasVencidas: make([]dto.FacturaVencida, 0, len(vencidas)),
		DiasVencimiento:  s.cfg.DiasVencimiento,
		GeneradoEn:       ahora,
	}
	for i := range bajos {
		resp.StockBajo = append(resp.StockBajo, productoAlerta(&bajos[i]))
	}
	for i := range agotados {
		resp.Agotados = append(resp.Agotados, productoAlerta(&agotados[i]))
	}
	for i := range vencidas {
		f := &vencidas[i]
		resp.FacturasVencidas = append(resp.FacturasVencidas, dto.FacturaVencida{
			ID:             f.ID.String(),
			Tipo:           string(f.Tipo),
			Numero:         f.Numero,
			Fecha:          f.Fecha,
			Contraparte:    f.NombreContraparte(),
			SaldoPendiente: f.SaldoPendiente(),
			DiasVencida:    int(ahora.Sub(f.Fecha).Hours() / 24),
		})
	}
	return resp, nil
}

func (s *alertaService) Notificar(ctx context.Context) (*dto.NotificarAlertasResponse, error) {
	snap, err := s.Calcular(ctx)
	if err != nil {
		return nil, err
	}
	s.guardar(ctx, snap)

	resp := &dto.NotificarAlertasResponse{}
	if snap.Vacia() {
		return resp, nil
	}

	var ns []model.Notificacion
	if n := len(snap.StockBajo); n > 0 {
		ns = append(ns, model.Notificacion{
			Tipo:    "warning",
			Mensaje: fmt.Sprintf("%d producto(s) con stock bajo: %s", n, nombresProductos(snap.StockBajo)),
		})
	}
	if n := len(snap.Agotados); n > 0 {
		ns = append(ns, model.Notificacion{
			Tipo:    "danger",
			Mensaje: fmt.Sprintf("%d producto(s) agotado(s): %s", n, nombresProductos(snap.Agotados)),
		})
	}
	if n := len(snap.FacturasVencidas); n > 0 {
		ns = append(ns, model.Notificacion{
			Tipo:    "danger",
			Mensaje: fmt.Sprintf("%d factura(s) pendiente(s) con más de %d días", n, snap.DiasVencimiento),
		})
	}
	if err := s.notifRepo.CreateBatch(ctx, ns); err != nil {
		return nil, err
	}
	resp.Notificaciones = len(ns)
	resp.EmailEncolado = s.enviarResumen(ctx, snap)
	return resp, nil
}

func (s *alertaService) ListarNotificaciones(ctx context.Context, soloNoLeidas bool, limit int) ([]dto.NotificacionResponse, error) {
	ns, err := s.notifRepo.List(ctx, soloNoLeidas, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotificacionResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, dto.NotificacionResponse{
			ID:        n.ID.String(),
			Mensaje:   n.Mensaje,
			Tipo:      n.Tipo,
			Leida:     n.Leida,
			CreatedAt: n.CreatedAt,
		})
	}
	return out, nil
}

func (s *alertaService) MarcarLeida(ctx context.Context, id uuid.UUID) error {
	if err := s.notifRepo.MarcarLeida(ctx, id); err != nil {
		return noEncontrado(err, "notificacion_no_encontrada", "notificación no encontrada")
	}
	return nil
}

func (s *alertaService) guardar(ctx context.Context, snap *dto.AlertasResponse) {
	if err := s.cache.Set(ctx, snap, s.cfg.CacheTTL); err != nil {
		log.Warn().Err(err).Msg("alertas: escritura de cache fallida")
	}
}

// enviarResumen is best-effort; it reports whether the digest was enqueued.
func (s *alertaService) enviarResumen(ctx context.Context, snap *dto.AlertasResponse) bool {
	if s.emails == nil {
		return false
	}
	to := s.cfg.Destinatarios
	if len(to) == 0 {
		var err error
		to, err = s.usuarioRepo.ListEmailsPorRol(ctx, "administrador", "supervisor")
		if err != nil {
			log.Warn().Err(err).Msg("alertas: no se pudieron leer los destinatarios")
			return false
		}
	}
	if len(to) == 0 {
		log.Info().Msg("alertas: sin destinatarios, resumen no enviado")
		return false
	}

	msg := dto.EmailMensaje{
		To:      to,
		Subject: fmt.Sprintf("Alertas de inventario y cobranzas (%s)", snap.GeneradoEn.Format("02/01/2006")),
		Body:    cuerpoResumen(snap),
	}
	if err := s.emails.EnqueueEmail(ctx, msg); err != nil {
		log.Warn().Err(err).Msg("alertas: no se pudo encolar el resumen")
		return false
	}
	return true
}

func cuerpoResumen(snap *dto.AlertasResponse) string {
	var b strings.Builder
	if len(snap.Agotados) > 0 {
		b.WriteString("Productos agotados:\n")
		for _, p := range snap.Agotados {
			fmt.Fprintf(&b, "  %s %s\n", p.Codigo, p.Nombre)
		}
		b.WriteString("\n")
	}
	if len(snap.StockBajo) > 0 {
		b.WriteString("Productos con stock bajo:\n")
		for _, p := range snap.StockBajo {
			fmt.Fprintf(&b, "  %s %s: %d (mínimo %d)\n", p.Codigo, p.Nombre, p.Stock, p.StockMinimo)
		}
		b.WriteString("\n")
	}
	if len(snap.FacturasVencidas) > 0 {
		fmt.Fprintf(&b, "Facturas pendientes con más de %d días:\n", snap.DiasVencimiento)
		for _, f := range snap.FacturasVencidas {
			fmt.Fprintf(&b, "  %s %s %s: Gs. %d (%d días)\n", f.Tipo, f.Numero, f.Contraparte, f.SaldoPendiente, f.DiasVencida)
		}
	}
	return b.String()
}

const maxNombresNotificacion = 5

func nombresProductos(ps []dto.ProductoAlerta) string {
	nombres := make([]string, 0, maxNombresNotificacion)
	for i, p := range ps {
		if i == maxNombresNotificacion {
			nombres = append(nombres, fmt.Sprintf("y %d más", len(ps)-i))
			break
		}
		nombres = append(nombres, p.Nombre)
	}
	return strings.Join(nombres, ", ")
}

func productoAlerta(p *model.Producto) dto.ProductoAlerta {
	return dto.ProductoAlerta{
		ID:          p.ID.String(),
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Stock:       p.Stock,
		StockMinimo: p.StockMinimo,
	}
}
