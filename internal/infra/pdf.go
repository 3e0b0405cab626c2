package infra

// pdf.go: estado de cuenta rendering with go-pdf/fpdf.
// A4 portrait with:
//   - Empresa header and titular block (razon social, CUIT, period)
//   - Saldo anterior line
//   - One row per linea (fecha, concepto, debe, haber, saldo)
//   - Totals and closing saldo
//
// The output file is saved to storagePath/<NombreArchivoEstadoCuenta>.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerarEstadoCuentaPDF writes the statement to storagePath (created if needed)
// and returns the path of the generated file.
func GenerarEstadoCuentaPDF(ec *dto.EstadoCuentaResponse, empresa, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, NombreArchivoEstadoCuenta(ec, "pdf"))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 14)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(0, 4, fmt.Sprintf("Pagina %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr(empresa), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Estado de cuenta corriente", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// ── Titular ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("%s: %s", etiquetaTitular(ec.Titular), ec.RazonSocial)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "CUIT: "+ec.CUIT, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Periodo: "+periodo(ec), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Lineas ───────────────────────────────────────────────────────────────
	cols := []float64{22, contentW - 22 - 3*28, 28, 28, 28}
	headers := []string{"Fecha", "Concepto", "Debe", "Haber", "Saldo"}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		align := "R"
		if i < 2 {
			align = "L"
		}
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(cols[i], 6, h, "B", ln, align, true, 0, "")
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(cols[0]+cols[1]+cols[2]+cols[3], 5, "Saldo anterior", "", 0, "L", false, 0, "")
	pdf.CellFormat(cols[4], 5, moneda(ec.SaldoAnterior), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, l := range ec.Lineas {
		concepto := l.Concepto
		if len([]rune(concepto)) > 60 {
			concepto = string([]rune(concepto)[:59]) + "..."
		}
		pdf.CellFormat(cols[0], 5, l.Fecha, "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 5, tr(concepto), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2], 5, montoOVacio(l.Debe), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], 5, montoOVacio(l.Haber), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[4], 5, moneda(l.Saldo), "", 1, "R", false, 0, "")
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.Ln(1)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(cols[0]+cols[1], 6, "Totales del periodo", "", 0, "L", false, 0, "")
	pdf.CellFormat(cols[2], 6, moneda(ec.Debe), "", 0, "R", false, 0, "")
	pdf.CellFormat(cols[3], 6, moneda(ec.Haber), "", 0, "R", false, 0, "")
	pdf.CellFormat(cols[4], 6, moneda(ec.Saldo), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

func etiquetaTitular(t string) string {
	if t == "proveedor" {
		return "Proveedor"
	}
	return "Cliente"
}

func periodo(ec *dto.EstadoCuentaResponse) string {
	desde, hasta := ec.Desde, ec.Hasta
	if desde == "" {
		desde = "inicio"
	}
	if hasta == "" {
		hasta = "hoy"
	}
	return desde + " a " + hasta
}

func moneda(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func montoOVacio(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return moneda(d)
}
