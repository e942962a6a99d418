package qr

import (
	"bytes"
	"strings"
	"testing"
)

func TestCheckInURLCarriesTargetIdentifiers(t *testing.T) {
	g := NewGenerator("https://book.example.com")
	got := g.CheckInURL("d1", "b2", "svc")
	if !strings.HasPrefix(got, "https://book.example.com/check-in?") {
		t.Fatalf("url = %q", got)
	}
	for _, want := range []string{"dealership=d1", "brand=b2", "department=svc"} {
		if !strings.Contains(got, want) {
			t.Errorf("url %q missing %q", got, want)
		}
	}
}

func TestPNGProducesValidImage(t *testing.T) {
	g := NewGenerator("https://book.example.com")
	png, err := g.PNG("d1", "", "", 128)
	if err != nil {
		t.Fatalf("png: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatal("output does not look like a PNG")
	}
}
