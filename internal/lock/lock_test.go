package lock

import (
	"testing"
)

func TestAcquireIsExclusive(t *testing.T) {
	dir := t.TempDir()

	release, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if _, err := Acquire(dir); err == nil {
		t.Error("second Acquire should fail while lock is held")
	}

	release()

	release2, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	release2()
}
