package casefile

import "testing"

func TestNewCase(t *testing.T) {
	c, err := NewCase(1, 2, "  Tax filing ", "")
	if err != nil {
		t.Fatal(err)
	}
	if c.Title != "Tax filing" || c.Status != StatusOpen {
		t.Fatalf("case = %+v", c)
	}
	if _, err := NewCase(1, 0, "x", ""); err == nil {
		t.Fatal("expected error for missing client")
	}
	if _, err := NewCase(1, 2, "   ", ""); err == nil {
		t.Fatal("expected error for blank title")
	}
}

func TestTransition(t *testing.T) {
	c := &Case{ID: 9, Status: StatusOpen}
	steps := []struct {
		next    Status
		wantErr bool
	}{
		{StatusInProgress, false},
		{"archived", true},
		{StatusClosed, false},
		{StatusClosed, false},
		{StatusOpen, true},
	}
	for _, s := range steps {
		err := c.Transition(s.next)
		if (err != nil) != s.wantErr {
			t.Fatalf("%s: err = %v", s.next, err)
		}
	}
	if c.Status != StatusClosed {
		t.Fatalf("status = %s", c.Status)
	}
}
