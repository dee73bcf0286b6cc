package util

import (
	"strings"
	"testing"
)

func TestHashUserKeySeparatesPrincipals(t *testing.T) {
	guest := HashUserKey("guest:11111111-1111-1111-1111-111111111111")
	google := HashUserKey("google:12345")
	if guest == google {
		t.Fatalf("distinct principals hashed to the same key")
	}
	if guest != HashUserKey("guest:11111111-1111-1111-1111-111111111111") {
		t.Fatalf("hash is not stable")
	}
	if len(google) != 64 || strings.ContainsAny(google, ":/") {
		t.Fatalf("unexpected key %q", google)
	}
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("jobs:search:remotive", "Go Engineer", "Berlin")
	b := CacheKey("jobs:search:remotive", "  go engineer", "BERLIN ")
	if a != b {
		t.Fatalf("expected case and whitespace to be ignored: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "jobs:search:remotive:") || len(a) != len("jobs:search:remotive:")+24 {
		t.Fatalf("unexpected key %q", a)
	}
	// the separator keeps ("ab","c") and ("a","bc") apart
	if CacheKey("x", "ab", "c") == CacheKey("x", "a", "bc") {
		t.Fatalf("parts collided")
	}
	if CacheKey("jobs:search:theirstack", "go", "") == CacheKey("jobs:search:remotive", "go", "") {
		t.Fatalf("namespace ignored")
	}
}
