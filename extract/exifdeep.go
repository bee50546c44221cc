package extract

import (
	"os"
	"sort"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/rwcarlsen/goexif/tiff"
)

func init() {
	// Register manufacturer-specific note parsers so some vendor fields decode correctly.
	exif.RegisterParsers(mknote.All...)
}

// tagCollector gathers walked tags into a slice so they can be emitted in a
// stable order; goexif walks its internal map in random order.
type tagCollector struct {
	tags   map[string]*tiff.Tag
	filter func(name string) bool
}

func newTagCollector(filter func(string) bool) *tagCollector {
	return &tagCollector{tags: make(map[string]*tiff.Tag), filter: filter}
}

func (c *tagCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	n := string(name)
	if c.filter != nil && !c.filter(n) {
		return nil
	}
	c.tags[n] = tag
	return nil
}

func (c *tagCollector) sortedNames() []string {
	names := make([]string, 0, len(c.tags))
	for n := range c.tags {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// deepExif is pass 2: a full-detail tag dump from the primary reader.
// Thumbnail-image tags are excluded; everything else is normalized and
// namespaced, and whitespace-only values are dropped.
func (e *Extractor) deepExif(path string) *Record {
	rec := NewRecord()
	f, err := os.Open(path)
	if err != nil {
		e.log.Warnf("deep exif: %v", err)
		return rec
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		e.log.Warnf("deep exif: %v", err)
		return rec
	}

	c := newTagCollector(func(name string) bool {
		return !strings.HasPrefix(name, "Thumb")
	})
	_ = x.Walk(c)

	for _, name := range c.sortedNames() {
		v, ok := Normalize(rawFromTag(c.tags[name]))
		if !ok {
			continue
		}
		rec.Set("EXIF_"+name, v)
	}
	return rec
}

// rawFromTag classifies a TIFF tag into the RawValue variant expected by
// the normalizer.
func rawFromTag(tag *tiff.Tag) RawValue {
	if tag == nil {
		return ScalarValue(nil)
	}
	n := int(tag.Count)
	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return BytesValue(tag.Val)
		}
		return ScalarValue(s)
	case tiff.RatVal:
		rats := make([]Rational, 0, n)
		for i := 0; i < n; i++ {
			num, den, err := tag.Rat2(i)
			if err != nil {
				return BytesValue(tag.Val)
			}
			rats = append(rats, Rational{Num: num, Den: den})
		}
		return RationalValue(rats...)
	case tiff.IntVal:
		if n == 1 {
			v, err := tag.Int64(0)
			if err != nil {
				return BytesValue(tag.Val)
			}
			return ScalarValue(v)
		}
		seq := make([]interface{}, 0, n)
		for i := 0; i < n; i++ {
			v, err := tag.Int64(i)
			if err != nil {
				return BytesValue(tag.Val)
			}
			seq = append(seq, v)
		}
		return SequenceValue(seq...)
	case tiff.FloatVal:
		if n == 1 {
			v, err := tag.Float(0)
			if err != nil {
				return BytesValue(tag.Val)
			}
			return ScalarValue(v)
		}
		seq := make([]interface{}, 0, n)
		for i := 0; i < n; i++ {
			v, err := tag.Float(i)
			if err != nil {
				return BytesValue(tag.Val)
			}
			seq = append(seq, v)
		}
		return SequenceValue(seq...)
	default:
		return BytesValue(tag.Val)
	}
}

// cleanTagString renders a tag the way goexif prints it, minus the quotes
// it wraps around ASCII values.
func cleanTagString(tag *tiff.Tag) string {
	val := tag.String()
	if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
		val = val[1 : len(val)-1]
	}
	return val
}
