package dimen

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestParseDimen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.core")
	defer teardown()
	//
	d, _, err := ParseDimen("12px")
	if err != nil {
		t.Errorf("(1) %s", err.Error())
	} else if d != 12*PX {
		t.Errorf("(1) expected d to be 12px (%d), is %d", 12*PX, d)
	}
	//
	d, _, err = ParseDimen("0")
	if err != nil {
		t.Errorf("(2) %s", err.Error())
	} else if d != 0 {
		t.Errorf("(2) expected d to be 0, is %d", d)
	}
	//
	d, ispcnt, err := ParseDimen("20%")
	if err != nil {
		t.Errorf("(3) %s", err.Error())
	} else if ispcnt != true {
		t.Errorf("(3) expected percentage-marker to be true, is %v", ispcnt)
	} else if d != 20*PX {
		t.Errorf("(3) expected percentage to be 20, is %v", d)
	}
	//
	d, _, err = ParseDimen("1in")
	if err != nil || d != 96*PX {
		t.Errorf("(4) expected 1in to be 96px, is %v (err=%v)", d, err)
	}
	d, _, err = ParseDimen("12pt")
	if err != nil || d != 16*PX {
		t.Errorf("(5) expected 12pt to be 16px, is %v (err=%v)", d, err)
	}
	if _, _, err = ParseDimen("3em"); err == nil {
		t.Errorf("(6) expected relative unit to be rejected")
	}
}

func TestRect(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "webcore.core")
	defer teardown()
	//
	r := RectOf(10*PX, 10*PX, 100*PX, 50*PX)
	if r.Width() != 100*PX || r.Height() != 50*PX {
		t.Errorf("expected 100×50, have %v", r)
	}
	if !r.Contains(Point{10 * PX, 59 * PX}) || r.Contains(Point{110 * PX, 20 * PX}) {
		t.Errorf("containment of rect %v is broken", r)
	}
	u := r.Union(RectOf(0, 0, 20*PX, 20*PX))
	if u != RectOf(0, 0, 110*PX, 60*PX) {
		t.Errorf("unexpected union %v", u)
	}
	if Clamp(-5*PX, 0, 10*PX) != 0 || Clamp(50*PX, 0, 10*PX) != 10*PX {
		t.Errorf("clamp is broken")
	}
}
