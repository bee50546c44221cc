package extract

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/evanoberholster/imagemeta"
)

// imageInfo is pass 3: the container's own view of the file. The stdlib
// decoders provide format/mode/dimensions; the typed metadata decoder
// contributes the embedded EXIF walk for containers the stdlib cannot open
// (HEIF, AVIF, most RAW formats).
func (e *Extractor) imageInfo(path string) *Record {
	rec := NewRecord()
	f, err := os.Open(path)
	if err != nil {
		e.log.Warnf("image info: %v", err)
		return rec
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err == nil {
		mode := colorModeName(cfg.ColorModel)
		rec.Set("Image_Format", strings.ToUpper(format))
		rec.Set("Image_Mode", mode)
		rec.Set("Image_Size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))
		rec.Set("Image_Width", cfg.Width)
		rec.Set("Image_Height", cfg.Height)
		rec.Set("Image_Bands", strings.Join(colorBands(mode), "|"))
	} else {
		e.log.Warnf("image info: decode config: %v", err)
	}

	if _, err := f.Seek(0, 0); err != nil {
		return rec
	}
	ex, err := imagemeta.Decode(f)
	if err != nil {
		e.log.Warnf("image info: metadata decode: %v", err)
		return rec
	}

	addString := func(name, v string) {
		if strings.TrimSpace(v) != "" {
			rec.Set("Image_"+name, strings.TrimSpace(v))
		}
	}
	addInt := func(name string, v int64) {
		if v != 0 {
			rec.Set("Image_"+name, v)
		}
	}
	addTime := func(name string, t time.Time) {
		if !t.IsZero() {
			rec.Set("Image_"+name, t.Format("2006:01:02 15:04:05"))
		}
	}

	addString("Make", ex.Make)
	addString("Model", ex.Model)
	addString("Software", ex.Software)
	addString("ProcessingSoftware", ex.ProcessingSoftware)
	addString("Artist", ex.Artist)
	addString("Copyright", ex.Copyright)
	addString("CameraSerial", ex.CameraSerial)
	addString("ImageUniqueID", ex.ImageUniqueID)
	addString("LensMake", ex.LensMake)
	addString("LensModel", ex.LensModel)
	addString("LensSerial", ex.LensSerial)
	addTime("DateTimeOriginal", ex.DateTimeOriginal())
	addTime("CreateDate", ex.CreateDate())
	addTime("ModifyDate", ex.ModifyDate())
	if ex.ExposureTime != 0 {
		addString("ExposureTime", ex.ExposureTime.String()+" s")
	}
	if ex.FNumber != 0 {
		addString("FNumber", fmt.Sprintf("f/%.1f", float64(ex.FNumber)))
	}
	if ex.ISO != 0 {
		addInt("ISO", int64(ex.ISO))
	} else if ex.ISOSpeed != 0 {
		addInt("ISO", int64(ex.ISOSpeed))
	}
	if ex.ExposureBias != 0 {
		addString("ExposureBias", ex.ExposureBias.String())
	}
	if ex.ExposureProgram != 0 {
		addString("ExposureProgram", ex.ExposureProgram.String())
	}
	if ex.MeteringMode != 0 {
		addString("MeteringMode", ex.MeteringMode.String())
	}
	if ex.Flash != 0 {
		addString("Flash", ex.Flash.String())
	}
	if ex.FocalLength != 0 {
		addString("FocalLength", ex.FocalLength.String())
	}
	if ex.FocalLengthIn35mmFormat != 0 {
		addString("FocalLength35mm", ex.FocalLengthIn35mmFormat.String())
	}
	if ex.Orientation != 0 {
		addString("Orientation", ex.Orientation.String())
	}
	addInt("ExifWidth", int64(ex.ImageWidth))
	addInt("ExifHeight", int64(ex.ImageHeight))
	addInt("ImageNumber", int64(ex.ImageNumber))
	addInt("Rating", int64(ex.Rating))
	addString("ImageType", ex.ImageType.String())
	return rec
}

// colorModeName maps a stdlib color model onto the short channel-layout
// labels the rest of the pipeline keys off (bit-depth table, bands).
func colorModeName(m color.Model) string {
	switch m {
	case color.GrayModel:
		return "L"
	case color.Gray16Model:
		return "I"
	case color.RGBAModel, color.RGBA64Model:
		return "RGB"
	case color.NRGBAModel, color.NRGBA64Model, color.NYCbCrAModel:
		return "RGBA"
	case color.YCbCrModel:
		return "RGB"
	case color.CMYKModel:
		return "CMYK"
	}
	if _, ok := m.(color.Palette); ok {
		return "P"
	}
	return "RGB"
}

func colorBands(mode string) []string {
	switch mode {
	case "L":
		return []string{"L"}
	case "I":
		return []string{"I"}
	case "P":
		return []string{"P"}
	case "RGBA":
		return []string{"R", "G", "B", "A"}
	case "CMYK":
		return []string{"C", "M", "Y", "K"}
	default:
		return []string{"R", "G", "B"}
	}
}
