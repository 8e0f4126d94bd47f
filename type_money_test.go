package stockfolio

import (
	"encoding/json"
	"testing"
)

func TestMoney_String(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{INR(1150), "₹1,150.00"},
		{INR(116.666), "₹116.67"},
		{NO(3.5), "3.50"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestMoney_SignedString(t *testing.T) {
	if got := INR(0).SignedString(); got != "-" {
		t.Errorf("SignedString(0) = %q, want -", got)
	}
	if got := INR(2).SignedString(); got != "+₹2.00" {
		t.Errorf("SignedString(2) = %q, want +₹2.00", got)
	}
}

func TestMoney_WeakCurrency(t *testing.T) {
	var zero Money
	got := zero.Add(INR(5))
	if got.Currency() != "INR" {
		t.Errorf("Currency() = %q, want INR", got.Currency())
	}
	defer func() {
		if recover() == nil {
			t.Error("adding INR and USD should panic")
		}
	}()
	INR(1).Add(M(1, "USD"))
}

func TestPercentOf(t *testing.T) {
	if got := PercentOf(INR(5), INR(0)); got != 0 {
		t.Errorf("PercentOf(5, 0) = %v, want 0", got)
	}
	if got := PercentOf(INR(1), INR(4)); !got.Equal(25) {
		t.Errorf("PercentOf(1, 4) = %v, want 25%%", got)
	}
}

func TestMoney_JSON(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{INR(12.5), `{"currency":"INR","amount":12.5}`},
		{NO(3), `{"amount":3}`},
		{Money{}, `{"amount":0}`},
	}
	for _, tt := range tests {
		b, err := json.Marshal(tt.m)
		if err != nil {
			t.Fatalf("Marshal(%v) error = %v", tt.m, err)
		}
		if string(b) != tt.want {
			t.Errorf("Marshal(%v) = %s, want %s", tt.m, b, tt.want)
		}
		var m Money
		if err := json.Unmarshal(b, &m); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", b, err)
		}
		if !m.Equal(tt.m) {
			t.Errorf("Unmarshal(%s) = %v, want %v", b, m, tt.m)
		}
	}
}

func TestMoney_JSONInStruct(t *testing.T) {
	type line struct {
		Cost  Money
		Value *Money `json:",omitempty"`
	}
	v := INR(1200)
	b, err := json.Marshal(line{Cost: INR(1000), Value: &v})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"Cost":{"currency":"INR","amount":1000},"Value":{"currency":"INR","amount":1200}}`; string(b) != want {
		t.Errorf("Marshal() = %s, want %s", b, want)
	}
	var got line
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if !got.Cost.Equal(INR(1000)) || got.Value == nil || !got.Value.Equal(v) {
		t.Errorf("Unmarshal() = %+v, want 1000 and 1200 INR", got)
	}
}

func TestPercent_SignedString(t *testing.T) {
	tests := []struct {
		p    Percent
		want string
	}{
		{0, "-"},
		{-0.001, "-"},
		{1.234, "+1.23%"},
		{-4, "-4.00%"},
	}
	for _, tt := range tests {
		if got := tt.p.SignedString(); got != tt.want {
			t.Errorf("Percent(%v).SignedString() = %q, want %q", float64(tt.p), got, tt.want)
		}
	}
}
