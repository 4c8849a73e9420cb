package cache

import (
	"testing"

	"todos/internal/service"
)

func TestGetSetCopies(t *testing.T) {
	c := New()
	if _, ok := c.Get(TodosKey); ok {
		t.Fatal("expected empty cache")
	}

	items := []service.Item{{ID: 1, Text: "a"}}
	c.Set(TodosKey, Snapshot{Items: items, Total: 1})
	items[0].Text = "changed"

	got, ok := c.Get(TodosKey)
	if !ok || got.Items[0].Text != "a" || got.Total != 1 {
		t.Fatalf("expected stored copy, got %+v", got)
	}
	got.Items[0].Text = "changed again"
	again, _ := c.Get(TodosKey)
	if again.Items[0].Text != "a" {
		t.Error("Get must return a copy")
	}
}

func TestUpdateWithoutEntryIsNoop(t *testing.T) {
	c := New()
	ran := c.Update(TodosKey, func(s Snapshot) Snapshot {
		s.Total = 99
		return s
	})
	if ran {
		t.Error("expected no-op without entry")
	}
	if _, ok := c.Get(TodosKey); ok {
		t.Error("update must not create an entry")
	}
}

func TestUpdateAndRestore(t *testing.T) {
	c := New()
	c.Set(TodosKey, Snapshot{Items: []service.Item{{ID: 1}}, Total: 1})
	prev, _ := c.Get(TodosKey)

	c.Update(TodosKey, func(s Snapshot) Snapshot {
		s.Items = append([]service.Item{{ID: -1}}, s.Items...)
		s.Total++
		return s
	})
	if got, _ := c.Get(TodosKey); got.Total != 2 || got.Items[0].ID != -1 {
		t.Fatalf("unexpected snapshot after update: %+v", got)
	}

	c.Restore(TodosKey, &prev)
	if got, _ := c.Get(TodosKey); got.Total != 1 || len(got.Items) != 1 || got.Items[0].ID != 1 {
		t.Errorf("expected restored snapshot, got %+v", got)
	}

	c.Restore(TodosKey, nil)
	if _, ok := c.Get(TodosKey); ok {
		t.Error("expected nil restore to clear the entry")
	}
}

func TestSupersedeDiscardsStaleWrites(t *testing.T) {
	c := New()
	gen := c.Generation(TodosKey)

	if c.Supersede(TodosKey) != gen+1 {
		t.Fatal("expected generation to advance")
	}
	if c.SetIfCurrent(TodosKey, gen, Snapshot{Total: 5}) {
		t.Error("expected stale write to be rejected")
	}
	if _, ok := c.Get(TodosKey); ok {
		t.Error("stale write must not populate the entry")
	}
	if !c.SetIfCurrent(TodosKey, gen+1, Snapshot{Total: 5}) {
		t.Error("expected current write to be accepted")
	}
}

func TestSnapshotFind(t *testing.T) {
	s := Snapshot{Items: []service.Item{{ID: 3, Text: "c"}}}
	if it, ok := s.Find(3); !ok || it.Text != "c" {
		t.Errorf("expected item 3, got %+v %v", it, ok)
	}
	if _, ok := s.Find(4); ok {
		t.Error("expected miss")
	}
}
