// Package invoice renders a confirmed order into an A4 PDF invoice.
//
// The layout mirrors the paper invoices the shop already sends: seller block
// top-left, invoice metadata top-right, a line-item table with alternating
// row shading, and a subtotal / tax / grand total block. Rendering is a pure
// consumer of order data; nothing here feeds back into the matching core.
package invoice

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/farm2bag/voicecart/internal/order"
)

// taxRate is the flat tax applied on top of the order total.
const taxRate = 0.10

// Seller identifies the issuing business on the invoice header.
type Seller struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	City    string `yaml:"city"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
}

// Renderer produces PDF invoices for orders.
type Renderer struct {
	seller Seller
}

// NewRenderer returns a Renderer issuing invoices for seller.
func NewRenderer(seller Seller) *Renderer {
	return &Renderer{seller: seller}
}

// Render writes the PDF invoice for o to w.
func (r *Renderer) Render(w io.Writer, o order.Order) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	r.header(pdf, o)
	r.itemTable(pdf, o)
	r.totals(pdf, o)
	r.footer(pdf)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("invoice: render order %q: %w", o.ID, err)
	}
	return nil
}

func (r *Renderer) header(pdf *fpdf.Fpdf, o order.Order) {
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range []string{
		r.seller.Name,
		r.seller.Address,
		r.seller.City,
		"Phone: " + r.seller.Phone,
		"Email: " + r.seller.Email,
	} {
		if line == "" || line == "Phone: " || line == "Email: " {
			continue
		}
		pdf.Cell(100, 5, line)
		pdf.Ln(5)
	}

	// Invoice metadata, right-aligned against the item table's right edge.
	pdf.SetY(30)
	pdf.SetX(120)
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(75, 5, fmt.Sprintf(
		"Invoice: %s\nDate: %s\nStatus: %s",
		o.ID, o.CreatedAt.Format("02 Jan 2006"), o.Status,
	), "", "R", false)

	pdf.Ln(10)
}

// column layout for the item table (widths in mm, total 180).
var columns = []struct {
	title string
	width float64
	align string
}{
	{"Product", 80, "L"},
	{"Quantity", 30, "R"},
	{"Unit Price", 35, "R"},
	{"Subtotal", 35, "R"},
}

func (r *Renderer) itemTable(pdf *fpdf.Fpdf, o order.Order) {
	pdf.SetY(65)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for _, col := range columns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFillColor(249, 249, 249)
	fill := false
	for _, item := range o.Items {
		qty := fmt.Sprintf("%g %s", item.Quantity, item.Unit)
		cells := []string{
			item.Name,
			qty,
			fmt.Sprintf("%.2f", item.UnitPrice),
			fmt.Sprintf("%.2f", item.Subtotal),
		}
		for i, col := range columns {
			pdf.CellFormat(col.width, 7, cells[i], "1", 0, col.align, fill, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}
}

func (r *Renderer) totals(pdf *fpdf.Fpdf, o order.Order) {
	tax := o.Total * taxRate

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 10)
	writeTotal := func(label, value string, bold bool) {
		if bold {
			pdf.SetFont("Helvetica", "B", 11)
		}
		pdf.SetX(110)
		pdf.CellFormat(50, 7, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, value, "", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	writeTotal("Subtotal:", fmt.Sprintf("%.2f", o.Total), false)
	writeTotal(fmt.Sprintf("Tax (%.0f%%):", taxRate*100), fmt.Sprintf("%.2f", tax), false)
	writeTotal("Total:", fmt.Sprintf("%.2f", o.Total+tax), true)
}

func (r *Renderer) footer(pdf *fpdf.Fpdf) {
	pdf.SetY(-40)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, "Thank you for your business!")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 7)
	pdf.Cell(0, 4, "Terms: payment due within 30 days of the invoice date.")
}
