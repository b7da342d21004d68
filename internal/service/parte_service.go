package service

import (
	"context"

	"avicola/internal/apperror"
	"avicola/internal/dto"
	"avicola/internal/model"
	"avicola/internal/repository"

	"github.com/google/uuid"
)

// ParteService manages proveedores and clientes. Balances are read-only here;
// invoices and payment allocations are the only writers.
type ParteService interface {
	Crear(ctx context.Context, tipo model.TipoParte, req dto.CrearParteRequest) (*dto.ParteResponse, error)
	ObtenerPorID(ctx context.Context, tipo model.TipoParte, id uuid.UUID) (*dto.ParteResponse, error)
	Listar(ctx context.Context, tipo model.TipoParte, filter dto.ParteFilter) (*dto.ParteListResponse, error)
	Actualizar(ctx context.Context, tipo model.TipoParte, id uuid.UUID, req dto.ActualizarParteRequest) (*dto.ParteResponse, error)
	Desactivar(ctx context.Context, tipo model.TipoParte, id uuid.UUID) error
}

type parteService struct {
	repo repository.ParteRepository
}

func NewParteService(repo repository.ParteRepository) ParteService {
	return &parteService{repo: repo}
}

func (s *parteService) Crear(ctx context.Context, tipo model.TipoParte, req dto.CrearParteRequest) (*dto.ParteResponse, error) {
	var (
		resp *dto.ParteResponse
		err  error
	)
	if tipo == model.ParteProveedor {
		p := &model.Proveedor{Nombre: req.Nombre, RUC: req.RUC, Direccion: req.Direccion, Telefono: req.Telefono, Email: req.Email, Activo: true}
		err = s.repo.CreateProveedor(ctx, p)
		resp = proveedorToResponse(p)
	} else {
		c := &model.Cliente{Nombre: req.Nombre, RUC: req.RUC, Direccion: req.Direccion, Telefono: req.Telefono, Email: req.Email, Activo: true}
		err = s.repo.CreateCliente(ctx, c)
		resp = clienteToResponse(c)
	}
	if err != nil {
		if esDuplicado(err) {
			return nil, apperror.Validation("ruc_duplicado", "ya existe un %s con el RUC %s", tipo, req.RUC)
		}
		return nil, err
	}
	return resp, nil
}

func (s *parteService) ObtenerPorID(ctx context.Context, tipo model.TipoParte, id uuid.UUID) (*dto.ParteResponse, error) {
	if tipo == model.ParteProveedor {
		p, err := s.repo.FindProveedorByID(ctx, id)
		if err != nil {
			return nil, noEncontrado(err, "proveedor_no_encontrado", "proveedor no encontrado")
		}
		return proveedorToResponse(p), nil
	}
	c, err := s.repo.FindClienteByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "cliente_no_encontrado", "cliente no encontrado")
	}
	return clienteToResponse(c), nil
}

func (s *parteService) Listar(ctx context.Context, tipo model.TipoParte, filter dto.ParteFilter) (*dto.ParteListResponse, error) {
	resp := &dto.ParteListResponse{Page: filter.Page, Limit: filter.Limit}
	if tipo == model.ParteProveedor {
		ps, total, err := s.repo.ListProveedores(ctx, filter)
		if err != nil {
			return nil, err
		}
		resp.Total = total
		resp.Data = make([]dto.ParteResponse, 0, len(ps))
		for i := range ps {
			resp.Data = append(resp.Data, *proveedorToResponse(&ps[i]))
		}
		return resp, nil
	}
	cs, total, err := s.repo.ListClientes(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp.Total = total
	resp.Data = make([]dto.ParteResponse, 0, len(cs))
	for i := range cs {
		resp.Data = append(resp.Data, *clienteToResponse(&cs[i]))
	}
	return resp, nil
}

func (s *parteService) Actualizar(ctx context.Context, tipo model.TipoParte, id uuid.UUID, req dto.ActualizarParteRequest) (*dto.ParteResponse, error) {
	if tipo == model.ParteProveedor {
		p, err := s.repo.FindProveedorByID(ctx, id)
		if err != nil {
			return nil, noEncontrado(err, "proveedor_no_encontrado", "proveedor no encontrado")
		}
		aplicarCambiosParte(&p.Nombre, &p.Direccion, &p.Telefono, &p.Email, &p.Activo, req)
		if err := s.repo.UpdateProveedor(ctx, p); err != nil {
			return nil, err
		}
		return proveedorToResponse(p), nil
	}
	c, err := s.repo.FindClienteByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "cliente_no_encontrado", "cliente no encontrado")
	}
	aplicarCambiosParte(&c.Nombre, &c.Direccion, &c.Telefono, &c.Email, &c.Activo, req)
	if err := s.repo.UpdateCliente(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *parteService) Desactivar(ctx context.Context, tipo model.TipoParte, id uuid.UUID) error {
	activo := false
	_, err := s.Actualizar(ctx, tipo, id, dto.ActualizarParteRequest{Activo: &activo})
	return err
}

func aplicarCambiosParte(nombre *string, direccion, telefono, email **string, activo *bool, req dto.ActualizarParteRequest) {
	if req.Nombre != nil {
		*nombre = *req.Nombre
	}
	if req.Direccion != nil {
		*direccion = req.Direccion
	}
	if req.Telefono != nil {
		*telefono = req.Telefono
	}
	if req.Email != nil {
		*email = req.Email
	}
	if req.Activo != nil {
		*activo = *req.Activo
	}
}

func proveedorToResponse(p *model.Proveedor) *dto.ParteResponse {
	return &dto.ParteResponse{
		ID:        p.ID.String(),
		Tipo:      string(model.ParteProveedor),
		Nombre:    p.Nombre,
		RUC:       p.RUC,
		Direccion: p.Direccion,
		Telefono:  p.Telefono,
		Email:     p.Email,
		Saldo:     p.Saldo,
		Activo:    p.Activo,
	}
}

func clienteToResponse(c *model.Cliente) *dto.ParteResponse {
	return &dto.ParteResponse{
		ID:        c.ID.String(),
		Tipo:      string(model.ParteCliente),
		Nombre:    c.Nombre,
		RUC:       c.RUC,
		Direccion: c.Direccion,
		Telefono:  c.Telefono,
		Email:     c.Email,
		Saldo:     c.Saldo,
		Activo:    c.Activo,
	}
}
