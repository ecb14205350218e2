package ticket

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/go-event-tickets/internal/config"
	"github.com/go-event-tickets/internal/domain"
)

const (
	pageWidth  = 612.0 // US Letter, points
	pageHeight = 792.0
	marginLeft = 70.0

	headerHeight = 80.0
	footerHeight = 100.0
	qrSize       = 120.0

	// Decorations are rasterised at twice the point size.
	decorationScale = 2

	notAvailable = "N/A"
)

// AssetFetcher loads a decorative image.
type AssetFetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

type Generator interface {
	Generate(ctx context.Context, p *domain.Participant) ([]byte, error)
}

type GeneratorDeps struct {
	Event  config.Event
	Assets AssetFetcher // nil disables decorations
	Now    func() time.Time
	// Compress toggles stream compression. Uncompressed output keeps page
	// text greppable.
	Compress bool
}

type generator struct {
	event    config.Event
	assets   AssetFetcher
	now      func() time.Time
	compress bool
}

func NewGenerator(deps GeneratorDeps) Generator {
	g := &generator{
		event:    deps.Event,
		assets:   deps.Assets,
		now:      deps.Now,
		compress: deps.Compress,
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g
}

// Generate renders a one-page ticket for p. The QR code carries the
// participant id. Decorations are best effort; QR and document failures
// return domain.ErrGeneration.
func (g *generator) Generate(ctx context.Context, p *domain.Participant) ([]byte, error) {
	qrBytes, err := qrPNG(p.ParticipantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}

	stamp := g.now().UTC()
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(g.compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetTitle(g.event.Name+" Ticket", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFillColor(255, 255, 255)
	pdf.Rect(0, 0, pageWidth, pageHeight, "F")

	g.decorate(ctx, pdf, "header", g.event.HeaderImageURL, 0, 0, headerHeight)
	g.decorate(ctx, pdf, "footer", g.event.FooterImageURL, 0, pageHeight-footerHeight, footerHeight)

	pdf.SetTextColor(0, 0, 0)
	centered := func(y float64, s string) {
		s = tr(s)
		pdf.Text((pageWidth-pdf.GetStringWidth(s))/2, y, s)
	}
	line := func(y float64, s string) { pdf.Text(marginLeft, y, tr(s)) }
	heading := func(y float64, s string) {
		pdf.SetFont("Helvetica", "B", 12)
		line(y, s)
		pdf.SetFont("Helvetica", "", 12)
	}

	pdf.SetFont("Helvetica", "B", 18)
	centered(150, fmt.Sprintf("Thank you for registering for %s!", g.event.Name))
	pdf.SetFont("Helvetica", "", 14)
	centered(170, "We're excited to have you onboard.")

	y := 220.0
	heading(y, "Participant Details:")
	line(y+20, "Name: "+orNA(p.Name))
	line(y+40, "Email Id: "+orNA(p.Email))
	line(y+60, "Phone Number: "+orNA(p.Phone))
	line(y+80, "College Name: "+orNA(p.College))

	y += 120
	heading(y, "Event Details:")
	line(y+20, "Events: "+orNA(strings.Join(p.EventNames(), ", ")))
	line(y+40, "Team Name: "+orNAPtr(p.TeamName))
	line(y+60, "Team Code: "+orNAPtr(p.TeamCode))
	line(y+80, "Food Preference: "+orNAPtr(p.FoodPreference))

	y += 120
	heading(y, "Payment:")
	line(y+20, "Amount Paid: Rs. "+strconv.FormatFloat(p.Amount, 'f', -1, 64))

	y += 60
	pdf.SetFont("Times", "", 12)
	line(y, "Date: "+orNA(g.event.Date))
	line(y+20, "Venue: "+orNA(g.event.Venue))

	y += 60
	pdf.SetFont("Helvetica", "B", 10)
	centered(y, "If you have any queries, contact us at:")
	centered(y+15, orNA(g.event.ContactEmail))

	opt := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opt, bytes.NewReader(qrBytes))
	pdf.ImageOptions("qr", marginLeft, pageHeight-70-qrSize, qrSize, qrSize, false, opt, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	centered(pageHeight-40, g.event.Handle)

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("%w: render pdf: %w", domain.ErrGeneration, err)
	}
	return out.Bytes(), nil
}

// decorate draws a full-width image at y. Any failure is logged and the
// image is skipped.
func (g *generator) decorate(ctx context.Context, pdf *fpdf.Fpdf, name, url string, x, y, h float64) {
	if g.assets == nil || url == "" {
		return
	}
	img, err := g.assets.Fetch(ctx, url)
	if err != nil {
		slog.Warn("ticket decoration unavailable", "image", name, "url", url, "err", err)
		return
	}
	data, err := scalePNG(img, int(pageWidth)*decorationScale, int(h)*decorationScale)
	if err != nil {
		slog.Warn("ticket decoration not encodable", "image", name, "err", err)
		return
	}

	opt := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(data))
	if pdf.Ok() {
		pdf.ImageOptions(name, x, y, pageWidth, h, false, opt, 0, "")
	}
	if pdf.Err() {
		slog.Warn("ticket decoration not drawable", "image", name, "err", pdf.Error())
		pdf.ClearError()
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func orNAPtr(s *string) string {
	if s == nil {
		return notAvailable
	}
	return orNA(*s)
}
