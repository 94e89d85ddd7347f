package news

import "testing"

func TestNormalizeQuery(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Give me the latest news about Tesla", "tesla"},
		{"Explain the Apple vs Epic case", "apple epic"},
		{"Climate  Summit   Report", "climate summit"},
		{"the latest news", ""},
		{"SpaceX Starship launch", "spacex starship launch"},
	}
	for _, tc := range cases {
		if got := NormalizeQuery(tc.in); got != tc.want {
			t.Fatalf("NormalizeQuery(%q) = %q want %q", tc.in, got, tc.want)
		}
	}
}
