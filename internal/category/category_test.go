package category

import "testing"

func TestParseSpec(t *testing.T) {
	tests := []struct {
		spec    string
		mainID  int
		subID   int
		wantErr bool
	}{
		{"1_2", 1, 2, false},
		{"1_0", 1, 0, false},
		{"0_0", 0, 0, false},
		{"12_34", 12, 34, false},
		{"", 0, 0, true},
		{"1", 0, 0, true},
		{"1_", 0, 0, true},
		{"_2", 0, 0, true},
		{"a_b", 0, 0, true},
		{"1_2_3", 0, 0, true},
		{"-1_2", 0, 0, true},
	}

	for _, tt := range tests {
		mainID, subID, err := ParseSpec(tt.spec)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSpec(%q) err = %v, wantErr = %v", tt.spec, err, tt.wantErr)
			continue
		}
		if mainID != tt.mainID || subID != tt.subID {
			t.Errorf("ParseSpec(%q) = %d_%d, want %d_%d", tt.spec, mainID, subID, tt.mainID, tt.subID)
		}
	}
}

func TestResolve(t *testing.T) {
	tax := Default()

	tests := []struct {
		mainID  int
		subID   int
		wantErr bool
	}{
		{0, 0, false},
		{1, 0, false},
		{1, 2, false},
		{6, 2, false},
		{99, 0, true},
		{1, 99, true},
		{99, 1, true},
	}

	for _, tt := range tests {
		err := tax.Resolve(tt.mainID, tt.subID)
		if (err != nil) != tt.wantErr {
			t.Errorf("Resolve(%d, %d) err = %v, wantErr = %v", tt.mainID, tt.subID, err, tt.wantErr)
		}
	}
}

func TestTaxonomyLookups(t *testing.T) {
	tax := Default()

	if len(tax.Mains()) == 0 {
		t.Fatal("Mains() is empty")
	}

	main, ok := tax.Main(1)
	if !ok {
		t.Fatal("Main(1) not found")
	}
	if main.Name != "Anime" {
		t.Errorf("Main(1).Name = %q, want Anime", main.Name)
	}

	sub, ok := tax.Sub(1, 2)
	if !ok {
		t.Fatal("Sub(1, 2) not found")
	}
	if sub.Name != "English-translated" {
		t.Errorf("Sub(1, 2).Name = %q, want English-translated", sub.Name)
	}

	if _, ok := tax.Sub(1, 99); ok {
		t.Error("Sub(1, 99) resolved, want miss")
	}
	if _, ok := tax.Sub(99, 1); ok {
		t.Error("Sub(99, 1) resolved, want miss")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	if _, err := Load([]byte("- id: [broken")); err == nil {
		t.Error("Load accepted malformed YAML")
	}
}
