package pdftext

import "testing"

func TestExtractRejectsGarbage(t *testing.T) {
	if _, err := Extract([]byte("this is not a pdf")); err == nil {
		t.Fatal("garbage input extracted without error")
	}
	if _, err := Extract(nil); err == nil {
		t.Fatal("empty input extracted without error")
	}
}
