package formerrors

import (
	"reflect"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	errs := []FieldError{
		{Text: "Select all checkboxes", Href: "#authorise", Key: "confirm"},
		{Text: "Enter note", Href: "#authorise", Key: "note"},
	}

	got, err := Decode(Encode(errs))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(got, errs) {
		t.Errorf("round trip = %+v, want %+v", got, errs)
	}
}

func TestDecode(t *testing.T) {
	t.Run("empty string", func(t *testing.T) {
		got, err := Decode("")
		if err != nil || got != nil {
			t.Errorf("Decode(\"\") = %v, %v", got, err)
		}
	})

	t.Run("not base64", func(t *testing.T) {
		if _, err := Decode("%%%"); err == nil {
			t.Error("expected error for invalid input")
		}
	})

	t.Run("not json", func(t *testing.T) {
		if _, err := Decode("aGVsbG8="); err == nil {
			t.Error("expected error for non-json payload")
		}
	})
}

func TestByKey(t *testing.T) {
	tests := []struct {
		name string
		errs []FieldError
		want map[string]Message
	}{
		{
			name: "plain keys",
			errs: []FieldError{{Text: "Enter note", Key: "note"}},
			want: map[string]Message{"note": {Text: "Enter note"}},
		},
		{
			name: "date parts joined",
			errs: []FieldError{
				{Text: "Enter a day", Key: "day"},
				{Text: "Enter a year", Key: "year"},
			},
			want: map[string]Message{
				"day":       {Text: "Enter a day"},
				"year":      {Text: "Enter a year"},
				"visitDate": {Text: "Enter a day, Enter a year"},
			},
		},
		{
			name: "no errors",
			errs: nil,
			want: map[string]Message{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ByKey(tt.errs)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ByKey() = %v, want %v", got, tt.want)
			}
		})
	}
}
