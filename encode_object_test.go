package stockfolio

import "testing"

func TestObject(t *testing.T) {
	tests := []struct {
		name  string
		build func(o *object)
		want  string
	}{
		{"empty", func(o *object) {}, `{}`},
		{"insertion order", func(o *object) { o.Field("b", "x").Field("a", 1) }, `{"b":"x","a":1}`},
		{"omit empty", func(o *object) {
			o.Field("a", 0).OmitEmpty("b", "").OmitEmpty("c", 0).OmitEmpty("d", "x")
		}, `{"a":0,"d":"x"}`},
		{"escaped key", func(o *object) { o.Field(`"q"`, true) }, `{"\"q\"":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o object
			tt.build(&o)
			got, err := o.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("MarshalJSON() = %s, want %s", got, tt.want)
			}
		})
	}

	var o object
	o.Field("bad", make(chan int)).Field("a", 1)
	if _, err := o.MarshalJSON(); err == nil {
		t.Error("MarshalJSON() should keep the first error")
	}
}
