// Package watcher re-renders a report when its input files change.
//
// Editors and benchmark harnesses often replace a file instead of writing it
// in place, so the Watcher subscribes to the directories holding the inputs
// and filters events down to the input paths themselves. Bursts of events are
// collapsed by a debounce timer into a single render.
//
// Example usage:
//
//	w, err := watcher.New(paths, 200*time.Millisecond, render)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := w.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer w.Stop()
//
//	<-ctx.Done()
package watcher
