package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// columnas: name;description;price;currency;voice_minutes;data_gb;sms_count;validity_days
const catalogueColumns = 8

type tariffRow struct {
	Name         string
	Description  string
	Price        decimal.Decimal
	Currency     string
	VoiceMinutes int
	DataGB       decimal.Decimal
	SMSCount     int
	ValidityDays int
}

// parseCatalogue lee el CSV ya decodificado a UTF-8. La cabecera es opcional; las líneas vacías se ignoran.
// Un nombre repetido sobrescribe al anterior (última fila gana), igual que el upsert.
func parseCatalogue(r io.Reader) ([]tariffRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []tariffRow
	index := make(map[string]int)
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if isBlank(rec) {
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "name") {
			continue
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if i, ok := index[row.Name]; ok {
			rows[i] = row
			continue
		}
		index[row.Name] = len(rows)
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (tariffRow, error) {
	if len(rec) != catalogueColumns {
		return tariffRow{}, fmt.Errorf("se esperaban %d columnas, hay %d", catalogueColumns, len(rec))
	}
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	row := tariffRow{Name: rec[0], Description: rec[1], Currency: strings.ToUpper(rec[3])}
	if row.Name == "" {
		return tariffRow{}, errors.New("nombre vacío")
	}
	if row.Currency == "" {
		row.Currency = "ALL"
	}
	if len(row.Currency) != 3 {
		return tariffRow{}, fmt.Errorf("moneda inválida %q", rec[3])
	}

	var err error
	if row.Price, err = parseAmount(rec[2]); err != nil {
		return tariffRow{}, fmt.Errorf("price: %w", err)
	}
	if row.DataGB, err = parseAmount(rec[5]); err != nil {
		return tariffRow{}, fmt.Errorf("data_gb: %w", err)
	}
	if row.VoiceMinutes, err = parseCount(rec[4], 0); err != nil {
		return tariffRow{}, fmt.Errorf("voice_minutes: %w", err)
	}
	if row.SMSCount, err = parseCount(rec[6], 0); err != nil {
		return tariffRow{}, fmt.Errorf("sms_count: %w", err)
	}
	if row.ValidityDays, err = parseCount(rec[7], 30); err != nil {
		return tariffRow{}, fmt.Errorf("validity_days: %w", err)
	}
	return row, nil
}

// parseAmount acepta coma o punto como separador decimal; no admite separador de miles.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("valor negativo %s", s)
	}
	return d, nil
}

func parseCount(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("valor negativo %d", n)
	}
	return n, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// writeSQL upsert por nombre; reejecutar el script actualiza precios sin duplicar planes.
func writeSQL(w io.Writer, source string, plans []tariffRow) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de planes del operador\n")
	fmt.Fprintf(&b, "-- Generado desde %s (cmd/seed_tariffs)\n\n", source)
	b.WriteString("INSERT INTO tariff_plans (name, description, price, currency, voice_minutes, data_gb, sms_count, validity_days, is_active) VALUES\n")
	for i, p := range plans {
		fmt.Fprintf(&b, "  ('%s', '%s', %s, '%s', %d, %s, %d, %d, TRUE)",
			escapeSQL(p.Name), escapeSQL(p.Description), p.Price.StringFixed(2), p.Currency,
			p.VoiceMinutes, p.DataGB.StringFixed(2), p.SMSCount, p.ValidityDays)
		if i < len(plans)-1 {
			b.WriteString(",\n")
		} else {
			b.WriteString("\n")
		}
	}
	b.WriteString("ON CONFLICT (name) DO UPDATE SET\n")
	b.WriteString("  description = EXCLUDED.description,\n")
	b.WriteString("  price = EXCLUDED.price,\n")
	b.WriteString("  currency = EXCLUDED.currency,\n")
	b.WriteString("  voice_minutes = EXCLUDED.voice_minutes,\n")
	b.WriteString("  data_gb = EXCLUDED.data_gb,\n")
	b.WriteString("  sms_count = EXCLUDED.sms_count,\n")
	b.WriteString("  validity_days = EXCLUDED.validity_days,\n")
	b.WriteString("  is_active = TRUE,\n")
	b.WriteString("  updated_at = NOW();\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
