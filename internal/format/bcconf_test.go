package format

import (
	"strings"
	"testing"
)

func TestParseBCConfBasic(t *testing.T) {
	cfgs, err := ParseBCConf(strings.NewReader("entry = 1\nloop.body = 100\n\nexit = 1\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfgs) != 3 {
		t.Fatalf("got %d configs, want 3", len(cfgs))
	}
	if cfgs[1].Key != "loop.body" || cfgs[1].Weight != 100 {
		t.Fatalf("got %+v, want Key=loop.body Weight=100", cfgs[1])
	}
}

func TestParseBCConfMalformedLine(t *testing.T) {
	if _, err := ParseBCConf(strings.NewReader("entry\n")); err == nil {
		t.Fatalf("expected error for line missing '='")
	}
}

func TestParseBCConfNonIntegerWeight(t *testing.T) {
	if _, err := ParseBCConf(strings.NewReader("entry = abc\n")); err == nil {
		t.Fatalf("expected error for non-integer weight")
	}
}
