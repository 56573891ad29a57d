package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tripay/tripay/internal/payable"
)

func TestViewShowsRecordsAndStats(t *testing.T) {
	m, _, _ := newFlowModel(t, flowRecords()...)

	out := m.View()
	for _, want := range []string{"Tripay", "Overview", "Total Owed", "Payables", "Apple Inc.", "Google Cloud"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewSurvivesZeroSize(t *testing.T) {
	m, _, _ := newFlowModel(t, flowRecords()...)
	m.width = 0
	m.height = 0

	if out := m.View(); out == "" {
		t.Fatal("empty view")
	}
}

func TestViewEmptyListHint(t *testing.T) {
	m, _, _ := newFlowModel(t)

	if !strings.Contains(m.View(), "Press a to add one") {
		t.Error("empty state hint missing")
	}
}

func TestViewShowsLoadError(t *testing.T) {
	m, backend, _ := newFlowModel(t)
	backend.mu.Lock()
	backend.state.Err = errFake
	backend.mu.Unlock()
	m = flowApplyMsg(t, m, recordsChangedMsg{})

	if !strings.Contains(m.View(), "Load failed") {
		t.Error("load error not surfaced in status bar")
	}
}

func TestCalendarViewShowsMonthAndDueDays(t *testing.T) {
	m, _, _ := newFlowModel(t, flowRecords()...)
	m.viewMode = viewCalendar
	m.calYear = 2025
	m.calMonth = time.February

	out := m.View()
	if !strings.Contains(out, "February 2025") {
		t.Error("month title missing")
	}
	if !strings.Contains(out, "Due Calendar") {
		t.Error("calendar section missing")
	}
}

func TestDetailViewShowsAllFields(t *testing.T) {
	rec := flowRecord("p9", "WeWork", "4200.00", "2025-02-20", payable.StatusApproved)
	rec.Notes = "shared office"
	rec.Contact = "billing@wework.test"
	m, _, _ := newFlowModel(t, rec)
	m = flowPress(t, m, "v")

	out := m.detailView()
	for _, want := range []string{"WeWork", "2025-02-20", "approved", "INV-p9", "shared office", "billing@wework.test"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q", want)
		}
	}
}

func TestViewCompositesDetailModalOverTable(t *testing.T) {
	rec := flowRecord("p9", "WeWork", "4200.00", "2025-02-20", payable.StatusApproved)
	rec.Notes = "shared office"
	m, _, _ := newFlowModel(t, rec)
	m = flowPress(t, m, "v")

	out := m.View()
	for _, want := range []string{"shared office", "n notes  o contact  d delete  esc close"} {
		if !strings.Contains(out, want) {
			t.Errorf("composited view missing modal content %q", want)
		}
	}
	if !strings.Contains(out, "Overview") {
		t.Error("dashboard should stay visible under the modal")
	}
}

func TestMoneyFormatterGroupsDigits(t *testing.T) {
	f := newMoneyFormatter("en-PH", "PHP")
	got := f.Format(decimal.RequireFromString("15000.00"))
	if !strings.Contains(got, "15,000.00") {
		t.Errorf("formatted = %q", got)
	}
}

func TestMoneyFormatterFallsBackOnBadInput(t *testing.T) {
	f := newMoneyFormatter("not a locale", "XXINVALID")
	if got := f.Format(decimal.NewFromInt(5)); got == "" {
		t.Fatal("empty output")
	}
}

func TestNextStatusCycle(t *testing.T) {
	cases := []struct{ in, want payable.Status }{
		{payable.StatusPending, payable.StatusApproved},
		{payable.StatusApproved, payable.StatusPaid},
		{payable.StatusPaid, payable.StatusPending},
		{payable.Status("bogus"), payable.StatusPending},
	}
	for _, c := range cases {
		if got := nextStatus(c.in); got != c.want {
			t.Errorf("nextStatus(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
