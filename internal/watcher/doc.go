// Package watcher reports debounced changes to the files in one drop
// directory.
//
// A producer appends JSON lines to files in the directory; the watcher tells
// the consumer which files were created, grew, or went away, coalescing the
// burst of notifications a single write produces.
//
// Usage:
//
//	w, err := watcher.New("/var/spool/articles", watcher.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	go func() { _ = w.Run(ctx) }()
//
//	for batch := range w.Events() {
//	    for _, ev := range batch {
//	        switch ev.Operation {
//	        case watcher.OpCreate, watcher.OpModify:
//	            // read what was appended
//	        case watcher.OpDelete:
//	            // forget the file
//	        }
//	    }
//	}
package watcher
