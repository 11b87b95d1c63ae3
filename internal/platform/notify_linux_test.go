//go:build linux

package platform

import "testing"

func TestHints(t *testing.T) {
	h := hints(Options{Category: "transfer.complete", Transient: true})
	if got := h["category"].Value(); got != "transfer.complete" {
		t.Errorf("category = %v", got)
	}
	if got := h["transient"].Value(); got != true {
		t.Errorf("transient = %v", got)
	}
	if h := hints(Options{}); len(h) != 0 {
		t.Errorf("expected no hints, got %v", h)
	}
}

func TestExpire(t *testing.T) {
	if (Options{Transient: true}).expireMillis() >= (Options{}).expireMillis() {
		t.Error("transient notifications should expire sooner")
	}
}
