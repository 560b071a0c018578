package testutil

import (
	"fmt"
	"testing"

	"github.com/mazen160/go-random"
)

// RandomTitle produces a readable unique-ish name for test rows.
func RandomTitle(t testing.TB, prefix string) string {
	suffix, err := random.String(6)
	if err != nil {
		t.Fatal(err)
	}
	return fmt.Sprintf("%s %s", prefix, suffix)
}

func RandomViews(t testing.TB) int64 {
	n, err := random.IntRange(100_000, 50_000_000)
	if err != nil {
		t.Fatal(err)
	}
	return int64(n)
}
