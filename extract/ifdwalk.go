package extract

import (
	"fmt"
	"strings"

	exifv3 "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
)

// ifdWalk is pass 4: a low-level walk over every IFD section. Unlike the
// other passes, a per-tag decode failure is recorded as its own error field
// so structural corruption stays visible in the output.
func (e *Extractor) ifdWalk(path string) *Record {
	rec := NewRecord()

	rawExif, err := exifv3.SearchFileAndExtractExif(path)
	if err != nil {
		if err != exifv3.ErrNoExif {
			e.log.Warnf("ifd walk: %v", err)
		}
		return rec
	}

	im, err := exifcommon.NewIfdMappingWithStandard()
	if err != nil {
		e.log.Warnf("ifd walk: ifd mapping: %v", err)
		return rec
	}
	ti := exifv3.NewTagIndex()

	_, index, err := exifv3.Collect(im, ti, rawExif)
	if err != nil {
		e.log.Warnf("ifd walk: collect: %v", err)
		return rec
	}

	cb := func(ifd *exifv3.Ifd, ite *exifv3.IfdTagEntry) error {
		section := ifdSectionName(ite.IfdPath())
		tagName := ite.TagName()
		value, err := ite.Value()
		if err != nil {
			rec.Set(fmt.Sprintf("IFD_ERROR_%s_%s", section, tagName), fmt.Sprintf("Tag error: %v", err))
			return nil
		}
		if v, ok := Normalize(rawFromIfdValue(value)); ok {
			rec.Set(fmt.Sprintf("IFD_%s_%s", section, tagName), v)
		}
		return nil
	}
	if err := index.RootIfd.EnumerateTagsRecursively(cb); err != nil {
		e.log.Warnf("ifd walk: enumerate: %v", err)
	}
	return rec
}

func ifdSectionName(ifdPath string) string {
	switch ifdPath {
	case "IFD", "IFD0":
		return "Primary"
	case "IFD/Exif", "IFD0/Exif":
		return "Exif"
	case "IFD/GPSInfo", "IFD0/GPSInfo":
		return "GPS"
	case "IFD/Exif/Iop", "IFD0/Exif/Iop":
		return "Interop"
	case "IFD1":
		return "Thumbnail"
	}
	return strings.ReplaceAll(ifdPath, "/", "_")
}

// rawFromIfdValue classifies the dynamically-typed values the low-level
// reader hands back.
func rawFromIfdValue(v interface{}) RawValue {
	switch t := v.(type) {
	case nil:
		return ScalarValue(nil)
	case []byte:
		return BytesValue(t)
	case string:
		return ScalarValue(t)
	case []exifcommon.Rational:
		rats := make([]Rational, len(t))
		for i, r := range t {
			rats[i] = Rational{Num: int64(r.Numerator), Den: int64(r.Denominator)}
		}
		return RationalValue(rats...)
	case []exifcommon.SignedRational:
		rats := make([]Rational, len(t))
		for i, r := range t {
			rats[i] = Rational{Num: int64(r.Numerator), Den: int64(r.Denominator)}
		}
		return RationalValue(rats...)
	case []uint16:
		return sequenceFromInts(len(t), func(i int) interface{} { return t[i] })
	case []uint32:
		return sequenceFromInts(len(t), func(i int) interface{} { return t[i] })
	case []int16:
		return sequenceFromInts(len(t), func(i int) interface{} { return t[i] })
	case []int32:
		return sequenceFromInts(len(t), func(i int) interface{} { return t[i] })
	case []float32:
		return sequenceFromInts(len(t), func(i int) interface{} { return t[i] })
	case []float64:
		return sequenceFromInts(len(t), func(i int) interface{} { return t[i] })
	case []string:
		return sequenceFromInts(len(t), func(i int) interface{} { return t[i] })
	default:
		return ScalarValue(v)
	}
}

func sequenceFromInts(n int, at func(int) interface{}) RawValue {
	if n == 1 {
		return ScalarValue(at(0))
	}
	seq := make([]interface{}, n)
	for i := 0; i < n; i++ {
		seq[i] = at(i)
	}
	return SequenceValue(seq...)
}
