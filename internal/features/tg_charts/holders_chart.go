package tg_charts

// Top-holders distribution chart attached to analysis replies
// Horizontal bars, one per holder, widths proportional to the largest
// share in the snapshot

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"go.uber.org/zap"

	logging "token-radar/internal/infra/log"
	"token-radar/internal/token"
)

const (
	holdersChartWidth  = 1200
	holdersChartHeight = 800

	titleX        = 60.0
	titleY        = 80.0
	titleFontSize = 42.0

	barAreaLeft   = 320.0
	barAreaRight  = 1080.0
	barAreaTop    = 140.0
	holdersBarH   = 44.0
	holdersBarGap = 18.0

	labelFontSize = 28.0
	valueFontSize = 28.0
	labelRightPad = 20.0
	valueLeftPad  = 14.0
)

var holdersFontPaths = []string{
	"etc/fonts/InterVariable.ttf",
	"etc/fonts/Inter-Regular.ttf",
	"/usr/share/fonts/truetype/inter/InterVariable.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/System/Library/Fonts/Helvetica.ttc",
}

var barPalette = []color.RGBA{
	{86, 148, 255, 255},
	{255, 120, 86, 255},
	{86, 214, 160, 255},
	{255, 196, 86, 255},
	{186, 120, 255, 255},
}

// GenerateHoldersChart renders the top-holders bar chart for one
// snapshot and returns the PNG path.
func GenerateHoldersChart(snapshot *token.Snapshot) (string, error) {
	if snapshot == nil || len(snapshot.TopHolders) == 0 {
		return "", fmt.Errorf("no holder data available")
	}

	holders := snapshot.TopHolders
	if len(holders) > 10 {
		holders = holders[:10]
	}

	maxShare := holders[0].Percentage
	for _, h := range holders {
		if h.Percentage > maxShare {
			maxShare = h.Percentage
		}
	}
	if maxShare == 0 {
		maxShare = 1.0
	}

	dc := gg.NewContext(holdersChartWidth, holdersChartHeight)
	dc.SetColor(color.RGBA{18, 18, 24, 255})
	dc.Clear()

	fontPath, fontLoaded := loadChartFont(dc, titleFontSize)

	dc.SetColor(color.White)
	title := fmt.Sprintf("%s (%s) - Top %d Holders", snapshot.Identity.Name, snapshot.Identity.Symbol, len(holders))
	dc.DrawString(title, titleX, titleY)

	if fontLoaded {
		dc.LoadFontFace(fontPath, labelFontSize)
	}

	barAreaWidth := barAreaRight - barAreaLeft
	for i, holder := range holders {
		barY := barAreaTop + float64(i)*(holdersBarH+holdersBarGap)
		barWidth := (holder.Percentage / maxShare) * barAreaWidth

		dc.SetColor(barPalette[i%len(barPalette)])
		dc.DrawRectangle(barAreaLeft, barY, barWidth, holdersBarH)
		dc.Fill()

		dc.SetColor(color.White)
		label := holderLabel(holder, i)
		labelWidth, _ := dc.MeasureString(label)
		dc.DrawString(label, barAreaLeft-labelRightPad-labelWidth, barY+holdersBarH-12)

		value := fmt.Sprintf("%.2f%%", holder.Percentage)
		dc.DrawString(value, barAreaLeft+barWidth+valueLeftPad, barY+holdersBarH-12)
	}

	chartsDir := filepath.Join("etc", "charts")
	if err := os.MkdirAll(chartsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create charts directory: %w", err)
	}

	filename := filepath.Join(chartsDir, fmt.Sprintf("holders_%s_%s.png", snapshot.Identity.Chain, shortAddress(snapshot.Identity.Address)))
	if err := dc.SavePNG(filename); err != nil {
		return "", fmt.Errorf("failed to save chart: %w", err)
	}

	fileInfo, err := os.Stat(filename)
	if err != nil {
		return "", fmt.Errorf("failed to stat chart file: %w", err)
	}
	if fileInfo.Size() == 0 {
		os.Remove(filename)
		return "", fmt.Errorf("chart file is empty after rendering")
	}

	logging.LogInfo("Holders chart generated",
		zap.String("filename", filename),
		zap.Int("holders", len(holders)))
	return filename, nil
}

func loadChartFont(dc *gg.Context, size float64) (string, bool) {
	for _, path := range holdersFontPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := dc.LoadFontFace(path, size); err == nil {
			return path, true
		}
	}
	logging.LogWarn("No chart font found, using default face",
		zap.Int("paths_checked", len(holdersFontPaths)))
	return "", false
}

// holderLabel prefers the analytics label, then a shortened address.
func holderLabel(holder token.Holder, rank int) string {
	if holder.Label != "" {
		return holder.Label
	}
	if holder.Address != "" {
		return shortAddress(holder.Address)
	}
	return fmt.Sprintf("Holder #%d", rank+1)
}

func shortAddress(address string) string {
	if len(address) <= 12 {
		return address
	}
	return address[:6] + ".." + strings.ToLower(address[len(address)-4:])
}
