package legislature

import (
	"errors"
	"strings"
	"testing"

	"github.com/stake-plus/congressrp/src/shared/congress"
	"github.com/stake-plus/congressrp/src/workflow"
)

func sampleBill() congress.Bill {
	return congress.Bill{
		Reference:   "H.R. 004",
		Number:      4,
		Title:       "Clean Water Act",
		Content:     "Be it enacted.",
		Proposer:    "100",
		Category:    congress.CategoryBill,
		Origin:      congress.ChamberHouse,
		Chamber:     congress.ChamberHouse,
		Stage:       congress.StagePending,
		Color:       congress.ColorPending,
		MessageLink: "N/A",
		Session:     1,
	}
}

func field(t *testing.T, fields map[string]string, name string) string {
	t.Helper()
	v, ok := fields[name]
	if !ok {
		t.Fatalf("missing field %q", name)
	}
	return v
}

func TestBillEmbed(t *testing.T) {
	bill := sampleBill()
	bill.Cosponsors = []string{"200", "300"}
	embed := BillEmbed(bill)

	if embed.Title != "BILL - Clean Water Act" {
		t.Errorf("unexpected title %q", embed.Title)
	}
	if embed.Color != congress.ColorPending {
		t.Errorf("unexpected color %x", embed.Color)
	}
	fields := map[string]string{}
	for _, f := range embed.Fields {
		fields[f.Name] = f.Value
	}
	if got := field(t, fields, "Co-Sponsors"); got != "<@200>, <@300>" {
		t.Errorf("unexpected cosponsors %q", got)
	}
	if got := field(t, fields, "Status"); got != "Pending before Speaker" {
		t.Errorf("unexpected status %q", got)
	}
	if got := field(t, fields, "Original Message"); got != "N/A" {
		t.Errorf("unexpected link %q", got)
	}
	if _, ok := fields["Target"]; ok {
		t.Error("only impeachments show a target")
	}
}

func TestBillEmbedNoCosponsorsAndLongContent(t *testing.T) {
	bill := sampleBill()
	bill.Content = strings.Repeat("a", 3000)
	embed := BillEmbed(bill)
	for _, f := range embed.Fields {
		if len(f.Value) > 1024 {
			t.Errorf("field %s exceeds embed limit", f.Name)
		}
		if f.Name == "Co-Sponsors" && f.Value != "None" {
			t.Errorf("expected None, got %q", f.Value)
		}
	}
}

func TestResultEmbed(t *testing.T) {
	result := congress.RoundResult{Chamber: congress.ChamberHouse, Yea: 2, Nay: 1, Required: 2, Passed: true, Reason: congress.CloseByTime}
	embed := ResultEmbed(sampleBill(), result)
	if embed.Footer == nil || embed.Footer.Text != "Voting ended: Time expired" {
		t.Errorf("unexpected footer %+v", embed.Footer)
	}
	if embed.Color != congress.ColorPassed {
		t.Errorf("unexpected colour %x", embed.Color)
	}
	last := embed.Fields[len(embed.Fields)-1]
	if last.Name != "Passed House" || !strings.Contains(last.Value, "Yea 2") {
		t.Errorf("unexpected tally field %+v", last)
	}
}

func TestSubmissionText(t *testing.T) {
	bill := sampleBill()
	bill.Category = congress.CategoryImpeachment
	bill.Reference = "ART. 005"
	bill.Target = "Judge Doe"
	bill.Designation = "District Judge"

	text := SubmissionText(bill)
	for _, want := range []string{"New Impeachment - **ART. 005**", "Target: Judge Doe (District Judge)", "Submitted by <@100>", "Session: 1"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in %q", want, text)
		}
	}
}

func TestErrorText(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{congress.BillNotFound("H.R. 009"), "❌ Bill H.R. 009 not found."},
		{congress.ErrVotingStarted, "❌ Voting started, cannot cosponsor."},
		{errors.New("db down"), "❌ Something went wrong. Please try again later."},
	}
	for _, tt := range tests {
		if got := ErrorText(tt.err); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestSessionTextAndLines(t *testing.T) {
	text := SessionText(workflow.SessionSummary{Session: 2, Submitted: 3, NextReference: "H.R. 010"})
	if !strings.HasPrefix(text, "**Session 2**") || !strings.Contains(text, "H.R. 010") {
		t.Errorf("unexpected session text %q", text)
	}
	lines := BillLines([]congress.Bill{sampleBill()})
	if len(lines) != 1 || lines[0] != "**H.R. 004** Clean Water Act (Bill) - Pending before Speaker" {
		t.Errorf("unexpected lines %v", lines)
	}
}
