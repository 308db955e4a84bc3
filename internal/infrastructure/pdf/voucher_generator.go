// Package pdf genera el voucher de confirmación de reserva con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Agencia + contacto   │  VOUCHER + N° de reserva     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ALOJAMIENTO: hotel, dirección, ciudad, fechas, régimen      │
//	│  HUÉSPEDES: titular, documento, adultos, niños (edades)      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PRECIOS: oficial / tasa / descuento / TOTAL                 │
//	│  PAGOS: depósito y saldo (importe, vencimiento, estado)      │
//	│  TRANSFERENCIA: banco, titular, IBAN, SWIFT (si existe)      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con la reserva + notas + fecha de emisión        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"strings"
	"time"

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

	"github.com/jhoicas/Booking-api/internal/application/voucher"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorLight   = &props.Color{Red: 235, Green: 241, Blue: 247}
)

var moneyPrinter = message.NewPrinter(language.Spanish)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ voucher.Generator = (*VoucherGenerator)(nil)

// VoucherGenerator implementa voucher.Generator usando Maroto v2.
type VoucherGenerator struct{}

// NewVoucherGenerator construye el generador.
func NewVoucherGenerator() *VoucherGenerator { return &VoucherGenerator{} }

// Generate genera el PDF y devuelve sus bytes.
func (g *VoucherGenerator) Generate(doc voucher.Document) ([]byte, error) {
	if doc.Order == nil {
		return nil, fmt.Errorf("pdf: pedido vacío")
	}
	o := doc.Order

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Voucher "+o.ReservationNumber, true).
		WithAuthor(nonEmpty(doc.Agency.Name, "Agencia"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(o, doc.Agency))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionTitle("ALOJAMIENTO"))
	m.AddRows(stayRows(o)...)
	m.AddRows(sectionTitle("HUÉSPEDES"))
	m.AddRows(guestRows(o)...)

	m.AddRows(line.NewRow(2))
	m.AddRows(sectionTitle("PRECIO"))
	m.AddRows(pricingRow(o))

	m.AddRows(sectionTitle("CALENDARIO DE PAGOS"))
	m.AddRows(paymentHeaderRow())
	m.AddRows(paymentRow("Depósito", o.Deposit))
	m.AddRows(paymentRow("Saldo", o.Balance))

	if doc.Account != nil {
		m.AddRows(line.NewRow(2))
		m.AddRows(sectionTitle("DATOS PARA TRANSFERENCIA"))
		m.AddRows(bankRows(doc.Account)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(o, doc)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: agencia y contacto (izq) y número de reserva (der).
func headerRow(o *entity.Order, agency voucher.Agency) core.Row {
	contact := joinNonEmpty("   |   ", agency.Phone, agency.Email)
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(agency.Name, "Agencia de viajes"), props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(contact, " "), props.Text{
				Size: 8, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("VOUCHER DE RESERVA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(o.ReservationNumber, props.Text{
				Style: fontstyle.Bold, Size: 13, Align: align.Right, Top: 7,
			}),
			text.New("Estado: CONFIRMADA", props.Text{
				Size: 8, Align: align.Right, Top: 15, Color: colorGray,
			}),
		),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorWhite, Top: 1.5, Left: 2,
		}),
	)).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func field(label, value string, size int) core.Col {
	return col.New(size).Add(
		text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1}),
		text.New(nonEmpty(value, "—"), props.Text{Style: fontstyle.Bold, Size: 9, Top: 5}),
	)
}

// stayRows: alojamiento, destino y fechas.
func stayRows(o *entity.Order) []core.Row {
	return []core.Row{
		row.New(12).Add(
			field("Alojamiento", o.PropertyName, 6),
			field("Dirección", o.PropertyAddress, 6),
		),
		row.New(12).Add(
			field("Ciudad", o.CityTravel, 4),
			field("País", o.CountryTravel, 4),
			field("Habitación", o.RoomType, 4),
		),
		row.New(12).Add(
			field("Entrada", displayDate(o.CheckIn), 3),
			field("Salida", displayDate(o.CheckOut), 3),
			field("Noches", strconv.Itoa(o.Nights), 2),
			field("Régimen", o.MealPlan, 4),
		),
	}
}

// guestRows: titular y composición del grupo.
func guestRows(o *entity.Order) []core.Row {
	return []core.Row{
		row.New(12).Add(
			field("Titular", o.ClientName, 5),
			field("Documento", o.ClientDocument, 3),
			field("Nacionalidad", o.ClientNationality, 4),
		),
		row.New(12).Add(
			field("Adultos", strconv.Itoa(o.Adults), 3),
			field("Niños", strconv.Itoa(o.Children), 3),
			field("Edades", childrenAges(o.ChildrenAges), 6),
		),
	}
}

// pricingRow: bloque de precios alineado a la derecha.
func pricingRow(o *entity.Order) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, right float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: right, Top: 15,
		})
	}

	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(
			label("Precio oficial:", 0),
			label("Tasas:", 5),
			label("Descuento:", 10),
			grand("TOTAL:", 2),
		),
		col.New(3).Add(
			value(formatMoney(o.OfficialPrice), 0),
			value(formatMoney(o.TaxClean), 5),
			value("-"+formatMoney(o.Discount), 10),
			grand(formatMoney(o.TotalPrice), 1),
		),
	)
}

func paymentHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1.5, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		h("Concepto", 3, align.Left),
		h("Importe", 3, align.Right),
		h("Vencimiento", 2, align.Center),
		h("Pagado el", 2, align.Center),
		h("Estado", 2, align.Center),
	).WithStyle(&props.Cell{BackgroundColor: colorLight})
}

func paymentRow(label string, p entity.Payment) core.Row {
	status := "PENDIENTE"
	if p.IsPaid() {
		status = "PAGADO"
	}
	return row.New(7).Add(
		col.New(3).Add(text.New(label, props.Text{Size: 8, Top: 1.5, Left: 1})),
		col.New(3).Add(text.New(formatMoney(p.Amount), props.Text{Size: 8, Align: align.Right, Top: 1.5, Right: 1})),
		col.New(2).Add(text.New(displayDate(p.DueDate), props.Text{Size: 8, Align: align.Center, Top: 1.5})),
		col.New(2).Add(text.New(displayDate(p.PaidDate), props.Text{Size: 8, Align: align.Center, Top: 1.5})),
		col.New(2).Add(text.New(status, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1.5})),
	)
}

// bankRows: cuenta del manager del agente para el pago por transferencia.
func bankRows(a *entity.BankAccount) []core.Row {
	rows := []core.Row{
		row.New(12).Add(
			field("Banco", a.BankName, 6),
			field("Titular", a.HolderName, 6),
		),
		row.New(12).Add(
			field("IBAN", groupIBAN(a.IBAN), 8),
			field("SWIFT / BIC", a.Swift, 4),
		),
	}
	if a.Address != nil && *a.Address != "" {
		rows = append(rows, row.New(12).Add(field("Dirección del banco", *a.Address, 12)))
	}
	return rows
}

// footerRows: QR con la referencia de la reserva, notas y fecha de emisión.
func footerRows(o *entity.Order, doc voucher.Document) []core.Row {
	notes := nonEmpty(o.Notes, "Presente este voucher a su llegada al alojamiento.")
	agent := ""
	if doc.Agent != nil {
		agent = "Agente: " + doc.Agent.FullName()
	}
	generated := doc.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	return []core.Row{
		row.New(36).Add(
			col.New(3).Add(code.NewQr(o.ReservationNumber+"|"+o.ID, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(9).Add(
				text.New("Observaciones", props.Text{Style: fontstyle.Bold, Size: 8, Top: 2, Left: 3, Color: colorPrimary}),
				text.New(notes, props.Text{Size: 8, Top: 7, Left: 3}),
				text.New(agent, props.Text{Size: 7, Top: 24, Left: 3, Color: colorGray}),
				text.New("Emitido el "+generated.Format("02/01/2006 15:04"), props.Text{Size: 7, Top: 29, Left: 3, Color: colorGray}),
			),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// formatMoney importe con separadores españoles. Ej: 1234567.891 → "1.234.567,89".
func formatMoney(d decimal.Decimal) string {
	return moneyPrinter.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// displayDate convierte YYYY-MM-DD en DD/MM/YYYY; vacío → "—".
func displayDate(s *string) string {
	if s == nil || *s == "" {
		return "—"
	}
	t, err := time.Parse(entity.DateLayout, *s)
	if err != nil {
		return *s
	}
	return t.Format("02/01/2006")
}

func childrenAges(ages []int) string {
	if len(ages) == 0 {
		return ""
	}
	parts := make([]string, len(ages))
	for i, a := range ages {
		parts[i] = strconv.Itoa(a)
	}
	return strings.Join(parts, ", ") + " años"
}

// groupIBAN agrupa el IBAN en bloques de 4 caracteres.
func groupIBAN(iban string) string {
	var parts []string
	for len(iban) > 4 {
		parts = append(parts, iban[:4])
		iban = iban[4:]
	}
	if iban != "" {
		parts = append(parts, iban)
	}
	return strings.Join(parts, " ")
}
