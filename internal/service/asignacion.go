package service

import "github.com/google/uuid"

// FacturaPendiente is the view of an invoice the allocation planner needs.
type FacturaPendiente struct {
	ID     uuid.UUID
	Numero string
	Saldo  int64
}

// ItemPlan is one planned allocation.
type ItemPlan struct {
	Factura FacturaPendiente
	Monto   int64
}

// PlanificarAsignacion spreads disponible over facturas in the order given,
// oldest first, taking min(remaining, saldo) from each. Invoices without a
// pending balance are skipped and the walk stops once nothing is left.
// The result is deterministic for a fixed input.
func PlanificarAsignacion(disponible int64, facturas []FacturaPendiente) []ItemPlan {
	var plan []ItemPlan
	restante := disponible
	for _, f := range facturas {
		if restante <= 0 {
			break
		}
		if f.Saldo <= 0 {
			continue
		}
		monto := f.Saldo
		if restante < monto {
			monto = restante
		}
		plan = append(plan, ItemPlan{Factura: f, Monto: monto})
		restante -= monto
	}
	return plan
}
