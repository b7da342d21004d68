package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func pendientes(saldos ...int64) []FacturaPendiente {
	fs := make([]FacturaPendiente, len(saldos))
	for i, s := range saldos {
		fs[i] = FacturaPendiente{ID: uuid.New(), Numero: "00000" + string(rune('1'+i)), Saldo: s}
	}
	return fs
}

func montos(plan []ItemPlan) []int64 {
	out := make([]int64, 0, len(plan))
	for _, it := range plan {
		out = append(out, it.Monto)
	}
	return out
}

func TestPlanificarAsignacion(t *testing.T) {
	cases := []struct {
		name       string
		disponible int64
		saldos     []int64
		want       []int64
	}{
		{"mas antigua primero", 70000, []int64{30000, 50000, 40000}, []int64{30000, 40000}},
		{"cubre todo y sobra", 200000, []int64{30000, 50000}, []int64{30000, 50000}},
		{"salta saldo cero", 50000, []int64{0, 20000, 40000}, []int64{20000, 30000}},
		{"sin disponible", 0, []int64{10000}, []int64{}},
		{"sin facturas", 10000, nil, []int64{}},
		{"pago exacto", 30000, []int64{30000, 10000}, []int64{30000}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := PlanificarAsignacion(tc.disponible, pendientes(tc.saldos...))
			assert.Equal(t, tc.want, montos(plan))

			var total int64
			for _, it := range plan {
				assert.Positive(t, it.Monto)
				assert.LessOrEqual(t, it.Monto, it.Factura.Saldo)
				total += it.Monto
			}
			assert.LessOrEqual(t, total, tc.disponible)
		})
	}
}

func TestPlanificarAsignacion_Determinista(t *testing.T) {
	fs := pendientes(30000, 50000, 40000)
	a := PlanificarAsignacion(70000, fs)
	b := PlanificarAsignacion(70000, fs)
	assert.Equal(t, a, b)
	assert.Equal(t, fs[0].ID, a[0].Factura.ID)
	assert.Equal(t, fs[1].ID, a[1].Factura.ID)
}
