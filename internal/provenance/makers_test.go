package provenance

import "testing"

func TestNormalizeMaker(t *testing.T) {
	tests := map[string]string{
		"NIKON CORPORATION":           "nikon",
		"OLYMPUS IMAGING CORP.":       "olympus",
		"RICOH IMAGING COMPANY, LTD.": "ricoh",
		"LEICA CAMERA AG":             "leica",
		"  Apple  ":                   "apple",
		"Phase One":                   "phase one",
		"Co":                          "co",
		"":                            "",
	}
	for input, want := range tests {
		if got := normalizeMaker(input); got != want {
			t.Fatalf("normalizeMaker(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCatalogLookup(t *testing.T) {
	catalog := NewCatalog([]string{"Acme Optics", "apple"})

	tests := []struct {
		value string
		name  string
		class DeviceClass
		found bool
	}{
		{"Apple", "Apple", ClassSmartphone, true},
		{"samsung", "Samsung", ClassSmartphone, true},
		{"FUJIFILM", "Fujifilm", ClassCamera, true},
		{"Canon EOS R5", "Canon", ClassCamera, true},
		{"Carl Zeiss Jena", "Carl Zeiss", ClassLens, true},
		{"VOIGTLÄNDER", "Voigtländer", ClassLens, true},
		{"DJI", "DJI", ClassOther, true},
		{"Acme Optics", "Acme Optics", ClassOther, true},
		{"LGE", "LG", ClassSmartphone, true},
		{"LG Electronics", "LG", ClassSmartphone, true},
		{"EASTMAN KODAK COMPANY", "Kodak", ClassCamera, true},
		{"FUJI PHOTO FILM CO., LTD.", "Fujifilm", ClassCamera, true},
		{"OM Digital Solutions", "Olympus", ClassCamera, true},
		{"NIKON CORPORATION", "Nikon", ClassCamera, true},
		{"LGEX", "", "", false},
		{"Redmi Note 12", "", "", false},
		{"Unknown Gadget", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		maker, ok := catalog.Lookup(tt.value)
		if ok != tt.found || maker.Name != tt.name || maker.Class != tt.class {
			t.Fatalf("Lookup(%q) = %+v, %v; want %q/%q, %v", tt.value, maker, ok, tt.name, tt.class, tt.found)
		}
	}
}

func TestCatalogIgnoresDuplicateExtras(t *testing.T) {
	base := len(NewCatalog(nil).entries)
	if got := len(NewCatalog([]string{"APPLE", " ", "Canon", "LGE"}).entries); got != base {
		t.Fatalf("expected duplicates to be ignored, got %d entries want %d", got, base)
	}
}

func TestModelFamily(t *testing.T) {
	tests := map[string]string{
		"iPhone 15 Pro":  "iPhone",
		"SM-G991B":       "Samsung Galaxy",
		"Pixel 8 Pro":    "Pixel",
		"HUAWEI P30 Pro": "Huawei Phone",
		"Mate 40":        "Huawei Phone",
		"MI 9":           "Xiaomi Phone",
		"Redmi Note 12":  "Xiaomi Phone",
		"Canon EOS R5":   "",
		"":               "",
	}
	for model, want := range tests {
		if got := modelFamily(model); got != want {
			t.Fatalf("modelFamily(%q) = %q, want %q", model, got, want)
		}
	}
}

func TestEditorMatcher(t *testing.T) {
	m := newEditorMatcher([]string{"Snapseed", ""})
	if name, ok := m.match("adobe photoshop 25.0"); !ok || name != "Adobe" {
		t.Fatalf("expected case-insensitive Adobe match, got %q %v", name, ok)
	}
	if name, ok := m.match("Snapseed 2.1"); !ok || name != "Snapseed" {
		t.Fatalf("expected extra editor match, got %q %v", name, ok)
	}
	if _, ok := m.match("17.4.1"); ok {
		t.Fatal("firmware version must not match an editor")
	}
}

func TestLooksLikeCameraAndVerdict(t *testing.T) {
	tests := []struct {
		name    string
		report  Report
		s       scoring
		camera  bool
		verdict string
	}{
		{"screenshot wins", Report{Make: "Apple"}, scoring{score: 5, screenshot: true, device: true}, false, VerdictScreenshot},
		{"camera class", Report{Make: "NIKON CORPORATION", Maker: "Nikon", DeviceClass: "camera"}, scoring{score: 2, device: true}, false, "Likely standalone camera capture (Nikon)"},
		{"make only", Report{Make: "Foo Corp"}, scoring{score: 3, device: true}, true, "Captured with Foo Corp"},
		{"threshold", Report{}, scoring{score: 4}, true, VerdictLikelyCamera},
		{"one below", Report{}, scoring{score: 3}, false, VerdictPossible},
		{"low", Report{}, scoring{score: -1}, false, VerdictInsufficient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := looksLikeCamera(tt.s, 4); got != tt.camera {
				t.Fatalf("looksLikeCamera = %v, want %v", got, tt.camera)
			}
			if got := verdict(&tt.report, tt.s, 4); got != tt.verdict {
				t.Fatalf("verdict = %q, want %q", got, tt.verdict)
			}
		})
	}
}
