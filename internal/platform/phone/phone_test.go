package phone

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "leading zero", in: "0722000000", want: "254722000000"},
		{name: "plus prefix", in: "+254722000000", want: "254722000000"},
		{name: "already international", in: "254722000000", want: "254722000000"},
		{name: "surrounding whitespace", in: " 0722000000 ", want: "254722000000"},
		{name: "empty", in: "", wantErr: true},
		{name: "letters", in: "07abc00000", wantErr: true},
		{name: "foreign country code", in: "441632960000", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.in, "254")
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
