package ident

import "testing"

var (
	id1 = New(0, 0)
	id2 = New(0, 1)
	id3 = New(1, 1)
)

var compareToTests = []struct {
	a, b     ID
	expected int
}{
	{id1, id2, -1},
	{id1, id1, 0},
	{id2, id1, 1},
	{id3, id2, 1},
	{id3, id1, 1},
	{id1, id3, -1},
}

func TestCompareTo(t *testing.T) {
	for i, tt := range compareToTests {
		if actual := tt.a.CompareTo(tt.b); actual != tt.expected {
			t.Errorf("%d. %d != %d", i, actual, tt.expected)
		}
	}
}

var stringTests = []struct {
	id       ID
	expected string
}{
	{id1, "0-0"},
	{id2, "0-1"},
	{id3, "1-1"},
}

func TestString(t *testing.T) {
	for i, tt := range stringTests {
		if actual := tt.id.String(); actual != tt.expected {
			t.Errorf("%d. %q != %q", i, actual, tt.expected)
		}
	}
}

func TestQuorum(t *testing.T) {
	s := NewSet(id1, id2, id3)
	if got := s.Quorum(); got != 2 {
		t.Errorf("Quorum() = %d, want 2", got)
	}

	s4 := NewSet(id1, id2, id3, New(3, 0))
	if got := s4.Quorum(); got != 3 {
		t.Errorf("Quorum() = %d, want 3", got)
	}
}

func TestUndefined(t *testing.T) {
	if Undefined().CompareTo(NewFromInt(-1, 0)) != 0 {
		t.Errorf("Undefined() changed value")
	}
}
