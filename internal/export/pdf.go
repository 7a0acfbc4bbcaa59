package export

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/guttosm/binpack-service/internal/domain/model"
)

type rgb struct {
	R, G, B int
}

var itemColors = []rgb{
	{R: 76, G: 175, B: 80},
	{R: 33, G: 150, B: 243},
	{R: 255, G: 152, B: 0},
	{R: 156, G: 39, B: 176},
	{R: 0, G: 188, B: 212},
	{R: 244, G: 67, B: 54},
	{R: 255, G: 235, B: 59},
	{R: 121, G: 85, B: 72},
}

// A4 landscape, millimetres.
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	margin       = 15.0
	headerHeight = 12.0
	rowHeight    = 6.0
	qrSize       = 45.0
	drawAreaTop  = margin + headerHeight + 8.0
)

var tableColumns = []struct {
	title string
	width float64
}{
	{"Item", 50}, {"Label", 55}, {"Level", 15}, {"X", 18}, {"Y", 18}, {"Z", 18},
	{"W x H x D", 40}, {"Weight", 25}, {"Rotated", 18},
}

// WritePDF renders a loading plan: a summary page, one top view per
// support level and a placement table. When shareURL is set the summary
// carries a QR code pointing at it.
func WritePDF(w io.Writer, alloc *model.Allocation, shareURL string) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, margin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	if err := renderSummary(pdf, tr, alloc, shareURL); err != nil {
		return err
	}

	levels := alloc.Levels()
	for i, y := range levels {
		pdf.AddPage()
		renderLevel(pdf, tr, alloc, i+1, y)
	}

	renderTable(pdf, tr, alloc)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

func renderSummary(pdf *fpdf.Fpdf, tr func(string) string, alloc *model.Allocation, shareURL string) error {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(margin, margin)
	pdf.CellFormat(pageWidth-2*margin, headerHeight, tr("Loading plan "+alloc.ID), "", 0, "L", false, 0, "")

	c := alloc.Container
	container := c.Box().String()
	if c.Profile != "" {
		container = fmt.Sprintf("%s (%s)", container, c.Profile)
	}
	lines := [][2]string{
		{"Created", alloc.CreatedAt.Format("2006-01-02 15:04 MST")},
		{"Container", container},
		{"Max weight", fmt.Sprintf("%d", c.MaxWeight)},
		{"Items placed", fmt.Sprintf("%d", len(alloc.Placements))},
		{"Levels", fmt.Sprintf("%d", len(alloc.Levels()))},
		{"Items weight", fmt.Sprintf("%d (%d left)", alloc.ItemsWeight, alloc.WeightCapacityLeft)},
		{"Items volume", fmt.Sprintf("%d (%d left)", alloc.ItemsVolume, alloc.VolumeCapacityLeft)},
		{"Volume used", fmt.Sprintf("%.1f%%", alloc.VolumeUtilization()*100)},
	}

	y := drawAreaTop
	for _, l := range lines {
		pdf.SetXY(margin, y)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 8, tr(l[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(120, 8, tr(l[1]), "", 0, "L", false, 0, "")
		y += 8
	}

	if shareURL == "" {
		return nil
	}
	png, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("share-qr", opts, bytes.NewReader(png))
	qrX := pageWidth - margin - qrSize
	pdf.ImageOptions("share-qr", qrX, drawAreaTop, qrSize, qrSize, false, opts, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(qrX, drawAreaTop+qrSize+1)
	pdf.CellFormat(qrSize, 4, "Scan to open", "", 0, "C", false, 0, "")
	return nil
}

// renderLevel draws the width x depth footprint of the items resting at
// height y, seen from above.
func renderLevel(pdf *fpdf.Fpdf, tr func(string) string, alloc *model.Allocation, level int, y uint) {
	c := alloc.Container
	var onLevel []model.Placement
	for _, p := range alloc.Placements {
		if p.Min.Y == y {
			onLevel = append(onLevel, p)
		}
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(margin, margin)
	title := fmt.Sprintf("Level %d at height %d (%d items)", level, y, len(onLevel))
	pdf.CellFormat(pageWidth-2*margin, headerHeight, tr(title), "", 0, "L", false, 0, "")

	drawWidth := pageWidth - 2*margin
	drawHeight := pageHeight - drawAreaTop - margin
	scale := math.Min(drawWidth/float64(max(c.Width, 1)), drawHeight/float64(max(c.Depth, 1)))
	canvasW := float64(c.Width) * scale
	canvasH := float64(c.Depth) * scale
	offsetX := margin + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	pdf.SetFont("Helvetica", "", 7)
	for i, p := range onLevel {
		col := itemColors[i%len(itemColors)]
		px := offsetX + float64(p.Min.X)*scale
		py := offsetY + float64(p.Min.Z)*scale
		pw := float64(p.Max.X-p.Min.X) * scale
		ph := float64(p.Max.Z-p.Min.Z) * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		label := tr(p.ItemID)
		if pdf.GetStringWidth(label)+2 <= pw && ph >= 4 {
			pdf.SetXY(px, py+ph/2-2)
			pdf.CellFormat(pw, 4, label, "", 0, "C", false, 0, "")
		}
	}
}

func renderTable(pdf *fpdf.Fpdf, tr func(string) string, alloc *model.Allocation) {
	levels := levelIndex(alloc)
	header := func() float64 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetXY(margin, margin)
		pdf.CellFormat(pageWidth-2*margin, headerHeight, "Placements", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(221, 235, 247)
		pdf.SetXY(margin, drawAreaTop)
		for _, col := range tableColumns {
			pdf.CellFormat(col.width, rowHeight, col.title, "1", 0, "C", true, 0, "")
		}
		pdf.SetFont("Helvetica", "", 9)
		return drawAreaTop + rowHeight
	}

	y := header()
	for _, p := range alloc.Placements {
		if y+rowHeight > pageHeight-margin {
			y = header()
		}
		rotated := ""
		if p.Rotated {
			rotated = "yes"
		}
		cells := []string{
			tr(p.ItemID), tr(p.Label), fmt.Sprintf("%d", levels[p.Min.Y]),
			fmt.Sprintf("%d", p.Min.X), fmt.Sprintf("%d", p.Min.Y), fmt.Sprintf("%d", p.Min.Z),
			p.Size().String(), fmt.Sprintf("%d", p.Weight), rotated,
		}
		pdf.SetXY(margin, y)
		for i, col := range tableColumns {
			pdf.CellFormat(col.width, rowHeight, cells[i], "1", 0, "L", false, 0, "")
		}
		y += rowHeight
	}
}
