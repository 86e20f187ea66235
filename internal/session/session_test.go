package session

import "testing"

func TestTableByIDAndByUsername(t *testing.T) {
	table := NewTable()
	table.Add(&Client{ID: "a", Username: "obs1"})
	table.Add(&Client{ID: "b", Username: "obs1"})
	table.Add(&Client{ID: "c", Username: "obs2"})

	if _, ok := table.ByID("a"); !ok {
		t.Fatal("expected client a to be found by ID")
	}
	if _, ok := table.ByID("missing"); ok {
		t.Fatal("expected no client for unknown ID")
	}

	group := table.ByUsername("obs1")
	if len(group) != 2 {
		t.Fatalf("ByUsername(obs1) = %d clients, want 2", len(group))
	}

	solo := table.ByUsername("obs2")
	if len(solo) != 1 {
		t.Fatalf("ByUsername(obs2) = %d clients, want 1", len(solo))
	}
}

func TestTableRemoveDeregisters(t *testing.T) {
	table := NewTable()
	table.Add(&Client{ID: "a", Username: "obs1"})
	table.Remove("a")
	if _, ok := table.ByID("a"); ok {
		t.Fatal("expected client a to be removed")
	}
	if table.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", table.Len())
	}
}

func TestTableAllPreservesConnectionOrder(t *testing.T) {
	table := NewTable()
	table.Add(&Client{ID: "first"})
	table.Add(&Client{ID: "second"})
	table.Add(&Client{ID: "third"})

	all := table.All()
	if len(all) != 3 || all[0].ID != "first" || all[1].ID != "second" || all[2].ID != "third" {
		t.Fatalf("All() order = %v, want [first second third]", all)
	}
}

func TestClientOutboxFIFO(t *testing.T) {
	c := &Client{ID: "a"}
	c.Enqueue([]byte("one"))
	c.Enqueue([]byte("two"))

	v, ok := c.Dequeue()
	if !ok || string(v) != "one" {
		t.Fatalf("Dequeue = %q, %v, want \"one\", true", v, ok)
	}
	v, ok = c.Dequeue()
	if !ok || string(v) != "two" {
		t.Fatalf("Dequeue = %q, %v, want \"two\", true", v, ok)
	}
	if _, ok := c.Dequeue(); ok {
		t.Fatal("expected empty outbox after draining")
	}
}
