package model

import "testing"

func TestStatusCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{name: "screening to hired", from: StatusScreening, to: StatusHired, want: true},
		{name: "screening to rejected", from: StatusScreening, to: StatusRejected, want: true},
		{name: "testing to interview", from: StatusTesting, to: StatusInterview, want: true},
		{name: "interview to hired", from: StatusInterview, to: StatusHired, want: true},
		{name: "hired is terminal", from: StatusHired, to: StatusRejected, want: false},
		{name: "rejected is terminal", from: StatusRejected, to: StatusHired, want: false},
		{name: "no-op transition", from: StatusTesting, to: StatusTesting, want: false},
		{name: "unknown target", from: StatusScreening, to: Status("archived"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Fatalf("CanTransition(%q -> %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCandidateOwnedBy(t *testing.T) {
	t.Parallel()

	c := Candidate{Owner: "0xAbCd00000000000000000000000000000000Ef12"}

	if !c.OwnedBy("0xabcd00000000000000000000000000000000ef12") {
		t.Fatal("expected case-insensitive owner match")
	}
	if c.OwnedBy("0x1111111111111111111111111111111111111111") {
		t.Fatal("expected mismatching address to be rejected")
	}
	if c.OwnedBy("") {
		t.Fatal("expected empty address to be rejected")
	}
}
