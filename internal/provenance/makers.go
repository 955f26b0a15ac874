package provenance

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DeviceClass groups makers by the kind of device they build.
type DeviceClass string

const (
	ClassSmartphone DeviceClass = "smartphone"
	ClassCamera     DeviceClass = "camera"
	ClassLens       DeviceClass = "lens"
	ClassOther      DeviceClass = "other"
)

// Maker is a catalog entry.
type Maker struct {
	Name  string
	Class DeviceClass
}

var builtinMakers = map[DeviceClass][]string{
	ClassSmartphone: {
		"Apple", "Samsung", "Google", "Huawei", "Xiaomi", "Oppo", "Vivo", "OnePlus",
		"Realme", "Motorola", "Sony", "LG", "Nokia", "Asus", "Honor", "ZTE", "Meizu",
		"Lenovo", "Alcatel", "TCL", "HTC", "Micromax", "Infinix", "Tecno",
	},
	ClassCamera: {
		"Canon", "Nikon", "Fujifilm", "Olympus", "Panasonic", "Leica", "Pentax",
		"Sigma", "Hasselblad", "Ricoh", "Minolta", "Konica", "Casio", "Kodak",
		"Phase One", "Mamiya", "Yashica", "Contax",
	},
	ClassLens: {
		"Zeiss", "Carl Zeiss", "Tamron", "Tokina", "Samyang", "Voigtlander",
		"Voigtländer", "Rokinon", "Laowa", "Yongnuo", "Leitz",
	},
	ClassOther: {
		"DJI", "GoPro", "Insta360", "Blackmagic", "RED", "ARRI",
	},
}

// makerAliases map Make values that do not start with the brand name to
// the catalog entry they belong to.
var makerAliases = map[string]string{
	"LGE":                  "LG",
	"Eastman Kodak":        "Kodak",
	"Fuji Photo Film":      "Fujifilm",
	"HMD Global":           "Nokia",
	"OM Digital Solutions": "Olympus",
	"Asahi Optical":        "Pentax",
}

// corporateSuffixes are dropped from the end of a Make value before matching,
// so "NIKON CORPORATION" and "RICOH IMAGING COMPANY, LTD." resolve.
var corporateSuffixes = map[string]struct{}{
	"ag": {}, "camera": {}, "co": {}, "company": {}, "corp": {}, "corporation": {},
	"electronics": {}, "gmbh": {}, "imaging": {}, "inc": {}, "limited": {},
	"ltd": {}, "mobile": {}, "optical": {}, "technology": {},
}

// Catalog recognizes device makers from EXIF Make or Model values.
type Catalog struct {
	// sorted longest key first so "carl zeiss" wins over "zeiss"
	entries []catalogEntry
}

type catalogEntry struct {
	key   string
	maker Maker
}

// NewCatalog builds the built-in catalog plus extra makers, which are
// classified as other devices.
func NewCatalog(extra []string) *Catalog {
	seen := make(map[string]struct{})
	byName := make(map[string]Maker)
	c := &Catalog{}
	add := func(name string, maker Maker) {
		key := normalizeMaker(name)
		if key == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		c.entries = append(c.entries, catalogEntry{key: key, maker: maker})
	}
	for _, class := range []DeviceClass{ClassSmartphone, ClassCamera, ClassLens, ClassOther} {
		for _, name := range builtinMakers[class] {
			maker := Maker{Name: name, Class: class}
			byName[name] = maker
			add(name, maker)
		}
	}
	for alias, name := range makerAliases {
		if maker, ok := byName[name]; ok {
			add(alias, maker)
		}
	}
	for _, name := range extra {
		name = strings.TrimSpace(name)
		add(name, Maker{Name: name, Class: ClassOther})
	}
	sort.SliceStable(c.entries, func(i, j int) bool {
		return len(c.entries[i].key) > len(c.entries[j].key)
	})
	return c
}

// Lookup matches value exactly or by leading word against the catalog.
func (c *Catalog) Lookup(value string) (Maker, bool) {
	normalized := normalizeMaker(value)
	if normalized == "" {
		return Maker{}, false
	}
	for _, entry := range c.entries {
		if normalized == entry.key || strings.HasPrefix(normalized, entry.key+" ") {
			return entry.maker, true
		}
	}
	return Maker{}, false
}

// fold case-folds s. Casers carry state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

func normalizeMaker(value string) string {
	value = fold(norm.NFC.String(value))
	words := strings.FieldsFunc(value, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '.' || r == '/'
	})
	for len(words) > 1 {
		if _, ok := corporateSuffixes[words[len(words)-1]]; !ok {
			break
		}
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// modelFamily maps well-known phone model strings to a family name.
func modelFamily(model string) string {
	switch {
	case model == "":
		return ""
	case strings.Contains(model, "iPhone"):
		return "iPhone"
	case strings.Contains(model, "SM-"):
		return "Samsung Galaxy"
	case strings.Contains(model, "Pixel"):
		return "Pixel"
	case strings.Contains(model, "Mate"), strings.Contains(model, "P20"), strings.Contains(model, "P30"):
		return "Huawei Phone"
	case strings.Contains(model, "MI "), strings.Contains(model, "Redmi"):
		return "Xiaomi Phone"
	default:
		return ""
	}
}

var builtinEditors = []string{
	"Adobe", "Photoshop", "Lightroom", "GIMP", "Affinity", "Paint.NET", "Corel",
	"AfterShot", "DxO", "Capture One", "Pixelmator", "Acorn", "Krita", "PhotoDirector",
}

// editorMatcher finds known editing applications in software strings.
type editorMatcher struct {
	names []string
	keys  []string
}

func newEditorMatcher(extra []string) editorMatcher {
	var m editorMatcher
	for _, name := range append(append([]string(nil), builtinEditors...), extra...) {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		m.names = append(m.names, name)
		m.keys = append(m.keys, fold(name))
	}
	return m
}

// match returns the first known editor named in value.
func (m editorMatcher) match(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	folded := fold(value)
	for i, key := range m.keys {
		if strings.Contains(folded, key) {
			return m.names[i], true
		}
	}
	return "", false
}
