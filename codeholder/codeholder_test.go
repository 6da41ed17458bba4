package codeholder

import "testing"

func TestNewLabelIDSequential(t *testing.T) {
	c := NewSimple()

	id0, err := c.NewLabelID()
	if err != nil {
		t.Fatalf("new label id: %v", err)
	}

	id1, err := c.NewLabelID()
	if err != nil {
		t.Fatalf("new label id: %v", err)
	}

	if id1 != id0+1 {
		t.Fatalf("expected sequential ids, got %d then %d", id0, id1)
	}

	if c.LabelsCount() != 2 {
		t.Fatalf("expected 2 labels, got %d", c.LabelsCount())
	}
}

func TestNamedLabelRejectsUnknownParent(t *testing.T) {
	c := NewSimple()

	if _, err := c.NewNamedLabelID("child", LabelTypeLocal, 99); err == nil {
		t.Fatalf("expected error for unknown parent")
	}
}

func TestIsLabelValid(t *testing.T) {
	c := NewSimple()

	id, err := c.NewLabelID()
	if err != nil {
		t.Fatalf("new label id: %v", err)
	}

	if !c.IsLabelValid(id) {
		t.Fatalf("expected id %d to be valid", id)
	}

	if c.IsLabelValid(id + 1) {
		t.Fatalf("expected unissued id to be invalid")
	}
}
