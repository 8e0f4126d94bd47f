package stockfolio

import "testing"

func TestParseSide(t *testing.T) {
	tests := []struct {
		in      string
		want    Side
		wantErr bool
	}{
		{"BUY", Buy, false},
		{"sell", Sell, false},
		{" Buy ", Buy, false},
		{"hold", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSide(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSide(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSide(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSide_MarshalText(t *testing.T) {
	if _, err := Side(0).MarshalText(); err == nil {
		t.Error("MarshalText() of an unknown side should fail")
	}
	b, err := Sell.MarshalText()
	if err != nil || string(b) != "SELL" {
		t.Errorf("MarshalText() = %s, %v, want SELL", b, err)
	}
}
