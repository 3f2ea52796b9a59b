package delivery

import (
	"bytes"
	"fmt"

	"boleteria/common"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"
)

const qrSize = 300

// Renderer turns a ticket into a printable document.
type Renderer interface {
	Render(ticket *common.Ticket) ([]byte, error)
}

// PDFRenderer draws an A4 page with the buyer details and a QR image of the
// redemption code.
type PDFRenderer struct {
	dateLayout string
}

// NewPDFRenderer creates a new PDFRenderer
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{dateLayout: "2006-01-02 15:04"}
}

// Render returns the PDF bytes
func (r *PDFRenderer) Render(ticket *common.Ticket) ([]byte, error) {
	png, err := qrcode.Encode(ticket.RedemptionCode, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252; accents in names need translating
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Boleta", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, tr("Detalle de la Boleta"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	for _, line := range [][2]string{
		{"Nombre", ticket.BuyerName},
		{"Identificación", ticket.BuyerIdentification},
		{"Correo", ticket.BuyerEmail},
		{"Evento", eventName(ticket)},
		{"Tipo", ticket.Class},
		{"Fecha de Compra", ticket.PurchasedAt.Format(r.dateLayout)},
	} {
		pdf.CellFormat(45, 8, tr(line[0]+":"), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, tr(line[1]), "", 1, "L", false, 0, "")
	}

	name := fmt.Sprintf("qr-%d", ticket.ID)
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions(name, 55, pdf.GetY()+10, 100, 100, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func eventName(ticket *common.Ticket) string {
	if ticket.Event == nil {
		return "Sin evento"
	}
	return ticket.Event.Name
}
