package validate

import "testing"

func TestUlid_Valid(t *testing.T) {
	valid := []string{
		"01ARZ3NDEKTSV4RRFFQ69G5FAV",
		"01HN2PKWX3T6M8Q0V9J4S5D7E2",
	}
	for _, id := range valid {
		if !Ulid(id) {
			t.Errorf("Ulid(%q) = false, want true", id)
		}
	}
}

func TestUlid_Invalid(t *testing.T) {
	invalid := []string{
		"",
		"01ARZ3NDEKTSV4RRFFQ69G5FA",     // 25 chars
		"01ARZ3NDEKTSV4RRFFQ69G5FAVX",   // 27 chars
		"01arz3ndektsv4rrffq69g5fav",    // lowercase
		"01ARZ3NDEKTSV4RRFFQ69G5FAI",    // excluded letter I
		"01ARZ3NDEKTSV4RRFFQ69G5FAL",    // excluded letter L
		"01ARZ3NDEKTSV4RRFFQ69G5FAO",    // excluded letter O
		"01ARZ3NDEKTSV4RRFFQ69G5FAU",    // excluded letter U
		"01ARZ3NDEKTSV4RRFFQ69G5FA'",    // injection char
		"'; DROP TABLE cases; --      ", // padded injection attempt
	}
	for _, id := range invalid {
		if Ulid(id) {
			t.Errorf("Ulid(%q) = true, want false", id)
		}
	}
}

func TestWindow(t *testing.T) {
	cases := []struct {
		from, to int64
		want     bool
	}{
		{0, 0, true},
		{0, 100, true},
		{100, 100, true},
		{101, 100, false},
		{-1, 100, false},
		{0, -1, false},
	}
	for _, c := range cases {
		if got := Window(c.from, c.to); got != c.want {
			t.Errorf("Window(%d, %d) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestSubnetBits(t *testing.T) {
	for _, bits := range []int{0, 15, 32} {
		if !SubnetBits(bits) {
			t.Errorf("SubnetBits(%d) = false, want true", bits)
		}
	}
	for _, bits := range []int{-1, 33, 128} {
		if SubnetBits(bits) {
			t.Errorf("SubnetBits(%d) = true, want false", bits)
		}
	}
}
