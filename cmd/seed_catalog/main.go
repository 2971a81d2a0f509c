// seed_catalog genera un script SQL para cargar el catálogo de productos desde un CSV
// exportado de Excel (separador ';', codificación Windows-1252).
//
// Columnas: nombre;codigo_barras;categoria;costo;precio_venta;precio_mayorista;requiere_lote
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual.
// Escribe: migrations/0002_seed_catalog.sql
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// catalogNamespace espacio para derivar IDs estables desde el código de barras (re-ejecutar no duplica).
var catalogNamespace = uuid.MustParse("6f1c1b7e-3d4a-4e55-9a0b-2f5d8c1e7a10")

type row struct {
	name, barcode, category string
	cost, sale, wholesale   decimal.Decimal
	requiresLot             bool
}

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := readCatalog(transform.NewReader(f, charmap.Windows1252.NewDecoder()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "migrations", "0002_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Catálogo de productos\n")
	fmt.Fprintf(out, "-- Generado desde %s\n\n", filepath.Base(csvPath))
	for _, r := range rows {
		id := uuid.NewSHA1(catalogNamespace, []byte(r.barcode))
		out.WriteString("INSERT INTO products (id, name, barcode, category, cost_price, sale_price, wholesale_price, requires_lot)\n")
		fmt.Fprintf(out, "VALUES ('%s', '%s', '%s', '%s', %s, %s, %s, %t)\n",
			id, escapeSQL(r.name), escapeSQL(r.barcode), escapeSQL(r.category),
			r.cost.StringFixed(2), r.sale.StringFixed(2), r.wholesale.StringFixed(2), r.requiresLot)
		out.WriteString("ON CONFLICT (barcode) WHERE barcode IS NOT NULL DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category,\n")
		out.WriteString("  cost_price = EXCLUDED.cost_price, sale_price = EXCLUDED.sale_price, wholesale_price = EXCLUDED.wholesale_price,\n")
		out.WriteString("  requires_lot = EXCLUDED.requires_lot, updated_at = now();\n")
	}

	fmt.Printf("Generado %s: %d productos\n", outPath, len(rows))
}

func readCatalog(in io.Reader) ([]row, error) {
	r := csv.NewReader(in)
	r.Comma = ';'
	r.FieldsPerRecord = 7
	r.TrimLeadingSpace = true

	var rows []row
	seen := make(map[string]bool)
	for line := 1; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		// Encabezado
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "nombre") {
			continue
		}
		parsed, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if seen[parsed.barcode] {
			return nil, fmt.Errorf("línea %d: código de barras %s repetido", line, parsed.barcode)
		}
		seen[parsed.barcode] = true
		rows = append(rows, parsed)
	}
	return rows, nil
}

func parseRow(rec []string) (row, error) {
	out := row{
		name:     strings.TrimSpace(rec[0]),
		barcode:  strings.TrimSpace(rec[1]),
		category: strings.TrimSpace(rec[2]),
	}
	if out.name == "" || out.barcode == "" {
		return out, errors.New("nombre y código de barras son obligatorios")
	}
	prices := []*decimal.Decimal{&out.cost, &out.sale, &out.wholesale}
	for i, p := range prices {
		raw := strings.ReplaceAll(strings.TrimSpace(rec[3+i]), ",", ".")
		if raw == "" {
			raw = "0"
		}
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			return out, fmt.Errorf("precio %q inválido", rec[3+i])
		}
		*p = d.Round(2)
	}
	if !out.sale.IsPositive() {
		return out, errors.New("precio de venta debe ser mayor que cero")
	}
	switch strings.ToLower(strings.TrimSpace(rec[6])) {
	case "si", "sí", "s", "1", "true":
		out.requiresLot = true
	}
	return out, nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
