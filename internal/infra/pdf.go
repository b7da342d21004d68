package infra

// pdf.go renders the two printable documents with go-pdf/fpdf:
//   - arqueo de caja (A4): opening and closing counts, totals, variance, ledger
//   - recibo de pago (receipt paper, 80mm wide): party, amount, allocations
// Both write to an io.Writer so handlers can stream them.

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"avicola/internal/dto"

	"github.com/go-pdf/fpdf"
)

// Guaranies formats n with dot thousand separators: 1234567 → "Gs. 1.234.567".
func Guaranies(n int64) string {
	signo := ""
	if n < 0 {
		signo = "-"
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return "Gs. " + signo + b.String()
}

// ── Arqueo ────────────────────────────────────────────────────────────────────

func ArqueoPDF(w io.Writer, empresa string, r *dto.CajaResumenResponse) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr(empresa), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, tr("Arqueo de caja del "+r.Fecha), "", 1, "C", false, 0, "")
	estado := "ABIERTA"
	if r.Cerrada {
		estado = "CERRADA"
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Estado: "+estado+"   Apertura: "+r.FechaApertura.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	half := contentW / 2
	y := pdf.GetY()
	tablaDenominaciones(pdf, tr, "Conteo de apertura", r.DenominacionesApertura, 15, half-3)
	yFin := pdf.GetY()
	pdf.SetXY(15+half+3, y)
	tablaDenominaciones(pdf, tr, "Conteo de cierre", r.DenominacionesCierre, 15+half+3, half-3)
	if pdf.GetY() < yFin {
		pdf.SetY(yFin)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Resumen", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	fila := func(label string, monto int64) {
		pdf.CellFormat(contentW*0.6, 5, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 5, Guaranies(monto), "", 1, "R", false, 0, "")
	}
	fila("Saldo inicial", r.SaldoInicial)
	fila("Ingresos", r.TotalIngresos)
	fila("Egresos", r.TotalEgresos)
	fila("Saldo esperado", r.SaldoActual)
	if r.SaldoReal != nil {
		fila("Saldo contado", *r.SaldoReal)
	}
	if r.Desvio != nil {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW*0.6, 5, tr(fmt.Sprintf("Diferencia (%s%%, %s)", r.Desvio.Porcentaje.StringFixed(2), r.Desvio.Clasificacion)), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 5, Guaranies(r.Desvio.Monto), "", 1, "R", false, 0, "")
	}
	if r.Observaciones != nil && *r.Observaciones != "" {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4, tr("Observaciones: "+*r.Observaciones), "", "L", false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Movimientos", "B", 1, "L", false, 0, "")
	cols := []float64{contentW * 0.14, contentW * 0.14, contentW * 0.18, contentW * 0.34, contentW * 0.20}
	pdf.SetFont("Helvetica", "B", 8)
	for i, h := range []string{"Hora", "Tipo", "Categoría", "Descripción", "Monto"} {
		align := "L"
		if i == 4 {
			align = "R"
		}
		pdf.CellFormat(cols[i], 5, tr(h), "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 8)
	for _, m := range r.Movimientos {
		pdf.CellFormat(cols[0], 5, m.CreatedAt.Format("15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 5, m.Tipo, "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2], 5, m.Categoria, "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[3], 5, tr(recortar(m.Descripcion, 45)), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[4], 5, Guaranies(m.Monto), "", 1, "R", false, 0, "")
	}

	pdf.Ln(12)
	pdf.CellFormat(half, 5, "______________________", "", 0, "C", false, 0, "")
	pdf.CellFormat(half, 5, "______________________", "", 1, "C", false, 0, "")
	pdf.CellFormat(half, 5, "Cajero", "", 0, "C", false, 0, "")
	pdf.CellFormat(half, 5, "Supervisor", "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

func tablaDenominaciones(pdf *fpdf.Fpdf, tr func(string) string, titulo string, ds []dto.DenominacionResponse, x, ancho float64) {
	pdf.SetX(x)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(ancho, 6, tr(titulo), "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if len(ds) == 0 {
		pdf.SetX(x)
		pdf.CellFormat(ancho, 5, "Sin conteo", "", 1, "L", false, 0, "")
		return
	}
	var total int64
	for _, d := range ds {
		pdf.SetX(x)
		pdf.CellFormat(ancho*0.4, 5, Guaranies(d.Valor), "", 0, "L", false, 0, "")
		pdf.CellFormat(ancho*0.2, 5, fmt.Sprintf("x%d", d.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(ancho*0.4, 5, Guaranies(d.Subtotal), "", 1, "R", false, 0, "")
		total += d.Subtotal
	}
	pdf.SetX(x)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(ancho*0.6, 5, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(ancho*0.4, 5, Guaranies(total), "T", 1, "R", false, 0, "")
}

// ── Recibo ────────────────────────────────────────────────────────────────────

func ReciboPDF(w io.Writer, empresa string, p *dto.PagoResponse) error {
	alto := 90 + float64(len(p.Asignaciones))*5
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 80, Ht: alto},
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, tr(empresa), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	titulo := "Recibo de pago"
	if p.ContraparteTipo == "cliente" {
		titulo = "Recibo de cobro"
	}
	pdf.CellFormat(contentW, 5, titulo, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, "Recibo N° "+strings.ToUpper(p.ID[:8]), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, p.Fecha.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if p.Contraparte != "" {
		etiqueta := "Proveedor: "
		if p.ContraparteTipo == "cliente" {
			etiqueta = "Cliente: "
		}
		pdf.CellFormat(contentW, 4, tr(etiqueta+p.Contraparte), "", 1, "L", false, 0, "")
	}
	metodo := "Método: " + p.Metodo
	if p.Referencia != nil && *p.Referencia != "" {
		metodo += " (" + *p.Referencia + ")"
	}
	pdf.CellFormat(contentW, 4, tr(metodo), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1, col2 := contentW*0.55, contentW*0.45
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Factura", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Aplicado", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	for _, a := range p.Asignaciones {
		pdf.CellFormat(col1, 5, a.NumeroFactura, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, Guaranies(a.Monto), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, Guaranies(p.MontoTotal), "", 1, "R", false, 0, "")
	if p.MontoDisponible > 0 {
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(col1, 5, "Saldo a favor:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, Guaranies(p.MontoDisponible), "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("Documento no válido como factura"), "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

func recortar(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
