package extract

import (
	"fmt"
	"image"
	"os"
	"strings"
)

// bitDepthByMode is a coarse guess keyed off the channel layout; modes
// outside the table omit the field.
var bitDepthByMode = map[string]string{
	"L":    "8",
	"P":    "8",
	"I":    "32",
	"RGB":  "24",
	"RGBA": "32",
}

// technicalSpecs is pass 7: the container's technical parameters.
func (e *Extractor) technicalSpecs(path string) *Record {
	rec := NewRecord()
	f, err := os.Open(path)
	if err != nil {
		e.log.Warnf("technical specs: %v", err)
		return rec
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		e.log.Warnf("technical specs: %v", err)
		return rec
	}

	mode := colorModeName(cfg.ColorModel)
	bands := colorBands(mode)

	rec.Set("Technical_Format", strings.ToUpper(format))
	rec.Set("Technical_Mode", mode)
	rec.Set("Technical_Size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))
	rec.Set("Technical_Width", cfg.Width)
	rec.Set("Technical_Height", cfg.Height)
	if cfg.Height > 0 {
		rec.Set("Technical_Aspect_Ratio", fmt.Sprintf("%.4f", float64(cfg.Width)/float64(cfg.Height)))
	}
	rec.Set("Technical_Color_Bands", strings.Join(bands, "|"))
	rec.Set("Technical_Channels", len(bands))
	if depth, ok := bitDepthByMode[mode]; ok {
		rec.Set("Technical_Bit_Depth", depth)
	}
	return rec
}
