/*
Package loader resolves module-name references to source text on the file
system, maintaining a FIFO queue of pending imports and a seen-set so each
module file is read at most once.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024 The otr authors.
*/
package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("otr.loader")
}

// importRef is a pending module reference: a module name plus an optional
// "from \"subpath\"" directory, relative to the loader's root.
type importRef struct {
	module  string
	subpath string
}

// FileLoader resolves "<module>.otr" files under a root directory.
type FileLoader struct {
	root  string
	queue *arraylist.List
	seen  *treeset.Set
}

// NewFileLoader creates a FileLoader rooted at root.
func NewFileLoader(root string) *FileLoader {
	return &FileLoader{
		root:  root,
		queue: arraylist.New(),
		seen:  treeset.NewWith(utils.StringComparator),
	}
}

// Enqueue adds module to the pending queue unless it has already been
// enqueued once before (directly, via Enqueue, or transitively via an
// import statement naming it again).
func (l *FileLoader) Enqueue(module string) {
	l.EnqueueFrom(module, "")
}

// EnqueueFrom adds module to the pending queue, resolved under subpath
// (relative to the loader's root) once dequeued, unless already seen.
func (l *FileLoader) EnqueueFrom(module, subpath string) {
	if l.seen.Contains(module) {
		tracer().Debugf("loader: module %q already seen, skipping enqueue", module)
		return
	}
	l.seen.Add(module)
	l.queue.Add(importRef{module: module, subpath: subpath})
	tracer().Debugf("loader: enqueued module %q (from %q)", module, subpath)
}

// Dequeue pops the next pending module name and its resolved source text, or
// reports ok=false once the queue is empty.
func (l *FileLoader) Dequeue() (module string, source string, ok bool, err error) {
	if l.queue.Empty() {
		return "", "", false, nil
	}
	front, _ := l.queue.Get(0)
	l.queue.Remove(0)
	ref := front.(importRef)
	module = ref.module

	if ref.subpath != "" {
		source, err = l.TryReadModuleFrom(module, ref.subpath)
	} else {
		source, err = l.TryReadModule(module)
	}
	if err != nil {
		return module, "", false, err
	}

	tracer().Infof("loader: dequeued and read module %q", module)
	return module, source, true, nil
}

// TryReadModule reads "<module>.otr" from the loader's root directory.
func (l *FileLoader) TryReadModule(module string) (string, error) {
	path := filepath.Join(l.root, module+".otr")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("module %q could not be loaded from the file system: %w", module, err)
	}
	return string(data), nil
}

// TryReadModuleFrom reads "<module>.otr" from a subdirectory of the loader's
// root directory, as named by an import's "from \"subpath\"" clause.
func (l *FileLoader) TryReadModuleFrom(module, subpath string) (string, error) {
	path := filepath.Join(l.root, subpath, module+".otr")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("module %q could not be loaded from %q: %w", module, subpath, err)
	}
	return string(data), nil
}
