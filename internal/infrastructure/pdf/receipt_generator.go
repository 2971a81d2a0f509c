// Package pdf genera el comprobante de venta en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Sucursal + dirección │ N° venta + fecha + estado   │
//	│  CLIENTE: nombre + documento (o consumidor final)           │
//	│  TABLA: Cant | Producto | Lote | P.Unit | Desc | Subtotal    │
//	│  TOTALES: Subtotal / Descuento / Impuesto / TOTAL            │
//	│  PAGO: tipo, efectivo recibido, cambio                      │
//	│  FOOTER: QR con el número de venta                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/suplementos-api/internal/application/sales"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

var _ sales.ReceiptGenerator = (*ReceiptGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 110, Blue: 80}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ReceiptGenerator implementa sales.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct {
	printer *message.Printer
}

// NewReceiptGenerator construye el generador con formato de moneda es-CO.
func NewReceiptGenerator() *ReceiptGenerator {
	return &ReceiptGenerator{printer: message.NewPrinter(language.MustParse("es-CO"))}
}

// GenerateSaleReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateSaleReceipt(_ context.Context, data sales.ReceiptData) ([]byte, error) {
	if data.Sale == nil {
		return nil, fmt.Errorf("pdf: venta vacía")
	}
	sale := data.Sale
	branchName := "Sucursal"
	if data.Branch != nil && data.Branch.Name != "" {
		branchName = data.Branch.Name
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante "+sale.Number, true).
		WithAuthor(branchName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(sale, data.Branch))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(data.Client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(itemsHeaderRow())
	m.AddRows(g.itemRows(sale.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(sale))
	m.AddRows(g.paymentRow(sale))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(sale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *ReceiptGenerator) headerRow(sale *entity.Sale, branch *entity.Branch) core.Row {
	name, address := "Sucursal", ""
	if branch != nil {
		name = nonEmpty(branch.Name, name)
		address = strings.TrimSpace(branch.Address + "  " + branch.Phone)
	}
	status := "COMPROBANTE DE VENTA"
	statusColor := colorPrimary
	if sale.Status == entity.SaleStatusCancelled {
		status = "VENTA CANCELADA"
		statusColor = colorRed
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(address, "—"), props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(status, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: statusColor, Top: 1}),
			text.New(sale.Number, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New("Fecha: "+sale.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func clientRow(client *entity.Client) core.Row {
	name, detail := "Consumidor final", ""
	if client != nil {
		name = client.Name
		detail = fmt.Sprintf("Documento: %s   |   Tel: %s", nonEmpty(client.Document, "—"), nonEmpty(client.Phone, "—"))
	}
	return row.New(12).Add(col.New(12).Add(
		text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
		text.New(detail, props.Text{Size: 8, Top: 10, Color: colorGray}),
	))
}

func itemsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 4, align.Left),
		h("Lote", 2, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Desc.", 1, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

func (g *ReceiptGenerator) itemRows(items []entity.SaleItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	cell := func(s string, a align.Type) core.Component {
		return text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1})
	}
	for _, it := range items {
		lots := make([]string, 0, len(it.Allocations))
		for _, a := range it.Allocations {
			lots = append(lots, a.LotNumber)
		}
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(cell(fmt.Sprintf("%d", it.Quantity), align.Center)),
			col.New(4).Add(cell(it.ProductName, align.Left)),
			col.New(2).Add(cell(nonEmpty(strings.Join(lots, ", "), "—"), align.Left)),
			col.New(2).Add(cell(g.money(it.UnitPrice), align.Right)),
			col.New(1).Add(cell(g.money(it.Discount), align.Right)),
			col.New(2).Add(cell(g.money(it.Subtotal), align.Right)),
		))
	}
	return rows
}

func (g *ReceiptGenerator) totalsRow(sale *entity.Sale) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(26).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("Descuento:", 6),
			label("Impuesto:", 11),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 17}),
		),
		col.New(3).Add(
			value(g.money(sale.Subtotal), 1),
			value(g.money(sale.Discount), 6),
			value(g.money(sale.Tax), 11),
			text.New(g.money(sale.Total), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 17}),
		),
	)
}

func (g *ReceiptGenerator) paymentRow(sale *entity.Sale) core.Row {
	detail := "Pago: " + sale.PaymentType
	if sale.CashReceived.IsPositive() {
		detail += fmt.Sprintf("   |   Efectivo recibido: %s   |   Cambio: %s", g.money(sale.CashReceived), g.money(sale.Change))
	}
	if sale.PaymentType == entity.PaymentCredit {
		detail += "   |   Venta a crédito"
	}
	return row.New(8).Add(col.New(12).Add(text.New(detail, props.Text{Size: 8, Top: 2, Color: colorGray})))
}

func footerRow(sale *entity.Sale) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(sale.Number, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Gracias por su compra.", props.Text{Style: fontstyle.Bold, Size: 10, Top: 8, Left: 3, Color: colorPrimary}),
			text.New("Conserve este comprobante para cambios y devoluciones.", props.Text{Size: 8, Top: 16, Left: 3, Color: colorGray}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea con separadores de miles según la configuración regional.
func (g *ReceiptGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}
