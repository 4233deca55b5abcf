package core

import "testing"

func TestParseRate(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"50", "50.00", true},
		{"50.00", "50.00", true},
		{"12,34", "12.34", true},
		{" 2.5 ", "2.50", true},
		{"0", "0.00", true},
		{"-1", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseRate(tc.in)
		if tc.ok {
			if err != nil || FormatMoney(got) != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, FormatMoney(got), err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}
