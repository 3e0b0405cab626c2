package infra

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/dto"

	"github.com/xuri/excelize/v2"
)

const hojaEstadoCuenta = "Estado de cuenta"

var noAlfanumerico = regexp.MustCompile(`[^a-z0-9]+`)

// NombreArchivoEstadoCuenta builds a filesystem-safe name such as
// estado_cuenta_cliente_20123456786_2026-03-31.pdf.
func NombreArchivoEstadoCuenta(ec *dto.EstadoCuentaResponse, ext string) string {
	corte := ec.Hasta
	if corte == "" {
		corte = time.Now().Format(dto.FechaLayout)
	}
	cuit := strings.ReplaceAll(ec.CUIT, "-", "")
	titular := noAlfanumerico.ReplaceAllString(strings.ToLower(ec.Titular), "_")
	return fmt.Sprintf("estado_cuenta_%s_%s_%s.%s", titular, cuit, corte, ext)
}

// GenerarEstadoCuentaXLSX renders the statement as a single-sheet workbook.
// Amounts are written as numbers so the sheet can be summed in Excel.
func GenerarEstadoCuentaXLSX(ec *dto.EstadoCuentaResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", hojaEstadoCuenta); err != nil {
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: style: %w", err)
	}
	montoFmt := "#,##0.00"
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: &montoFmt})
	if err != nil {
		return nil, fmt.Errorf("xlsx: style: %w", err)
	}

	set := func(cell string, v interface{}) {
		if err == nil {
			err = f.SetCellValue(hojaEstadoCuenta, cell, v)
		}
	}

	set("A1", etiquetaTitular(ec.Titular))
	set("B1", ec.RazonSocial)
	set("A2", "CUIT")
	set("B2", ec.CUIT)
	set("A3", "Periodo")
	set("B3", periodo(ec))
	set("A5", "Fecha")
	set("B5", "Concepto")
	set("C5", "Origen")
	set("D5", "Debe")
	set("E5", "Haber")
	set("F5", "Saldo")
	set("B6", "Saldo anterior")
	set("F6", ec.SaldoAnterior.InexactFloat64())

	row := 7
	for _, l := range ec.Lineas {
		set(fmt.Sprintf("A%d", row), l.Fecha)
		set(fmt.Sprintf("B%d", row), l.Concepto)
		set(fmt.Sprintf("C%d", row), l.Origen)
		set(fmt.Sprintf("D%d", row), l.Debe.InexactFloat64())
		set(fmt.Sprintf("E%d", row), l.Haber.InexactFloat64())
		set(fmt.Sprintf("F%d", row), l.Saldo.InexactFloat64())
		row++
	}
	set(fmt.Sprintf("B%d", row), "Totales")
	set(fmt.Sprintf("D%d", row), ec.Debe.InexactFloat64())
	set(fmt.Sprintf("E%d", row), ec.Haber.InexactFloat64())
	set(fmt.Sprintf("F%d", row), ec.Saldo.InexactFloat64())
	if err != nil {
		return nil, fmt.Errorf("xlsx: write cell: %w", err)
	}

	for _, s := range []struct {
		from, to string
		style    int
	}{
		{"A5", "F5", bold},
		{"A1", "A3", bold},
		{fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), bold},
		{"D6", fmt.Sprintf("F%d", row-1), money},
	} {
		if err := f.SetCellStyle(hojaEstadoCuenta, s.from, s.to, s.style); err != nil {
			return nil, fmt.Errorf("xlsx: apply style: %w", err)
		}
	}
	if err := f.SetColWidth(hojaEstadoCuenta, "B", "B", 48); err != nil {
		return nil, fmt.Errorf("xlsx: col width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write: %w", err)
	}
	return buf.Bytes(), nil
}
