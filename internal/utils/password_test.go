package utils

import "testing"

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("Passw0rd")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ok, err := ComparePasswordAndHash("Passw0rd", hash)
	if err != nil || !ok {
		t.Fatalf("match = %v, err = %v", ok, err)
	}
	ok, err = ComparePasswordAndHash("Passw0rD", hash)
	if err != nil || ok {
		t.Fatalf("mismatch = %v, err = %v", ok, err)
	}
}

func TestCompareMalformedHash(t *testing.T) {
	if _, err := ComparePasswordAndHash("x", "not-a-hash"); err == nil {
		t.Fatalf("expected error for malformed hash")
	}
}

func TestRandomTokenUnique(t *testing.T) {
	a, b := RandomToken(), RandomToken()
	if len(a) != 64 || a == b {
		t.Fatalf("tokens %q %q", a, b)
	}
}
