package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeModule(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".otr"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture module: %v", err)
	}
}

func TestFileLoaderDedupesEnqueue(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "M1", "module M1 { }")

	l := NewFileLoader(dir)
	l.Enqueue("M1")
	l.Enqueue("M1")
	l.Enqueue("M1")

	_, _, ok, err := l.Dequeue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected a module to be dequeued")
	}

	_, _, ok, err = l.Dequeue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("expected queue to be empty after deduped enqueue")
	}
}

func TestFileLoaderFIFOOrder(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "A", "module A { }")
	writeModule(t, dir, "B", "module B { }")

	l := NewFileLoader(dir)
	l.Enqueue("A")
	l.Enqueue("B")

	first, _, ok, err := l.Dequeue()
	if err != nil || !ok {
		t.Fatalf("unexpected dequeue result: ok=%v err=%v", ok, err)
	}
	if first != "A" {
		t.Errorf("expected FIFO order, got %q first", first)
	}

	second, _, ok, err := l.Dequeue()
	if err != nil || !ok {
		t.Fatalf("unexpected dequeue result: ok=%v err=%v", ok, err)
	}
	if second != "B" {
		t.Errorf("expected FIFO order, got %q second", second)
	}
}

func TestFileLoaderMissingModule(t *testing.T) {
	dir := t.TempDir()
	l := NewFileLoader(dir)
	l.Enqueue("Missing")

	_, _, _, err := l.Dequeue()
	if err == nil {
		t.Errorf("expected an error for a missing module file")
	}
}

func TestFileLoaderFromSubpath(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "vendor")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeModule(t, sub, "Lib", "module Lib { }")

	l := NewFileLoader(dir)
	l.EnqueueFrom("Lib", "vendor")

	module, source, ok, err := l.Dequeue()
	if err != nil || !ok {
		t.Fatalf("unexpected dequeue result: ok=%v err=%v", ok, err)
	}
	if module != "Lib" || source != "module Lib { }" {
		t.Errorf("unexpected dequeue: module=%q source=%q", module, source)
	}
}
