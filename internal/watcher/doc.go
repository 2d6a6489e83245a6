// Package watcher keeps a served rule table in step with the rule artifact
// on disk.
//
// The Watcher subscribes to filesystem events for the directory holding the
// SQLite artifact. Writes to the database or its WAL/journal files are
// debounced and then trigger a reload: the artifact is reopened, the rules
// are loaded and the new table is handed to a Target. A reload that fails
// leaves the previous table in place.
//
// Example usage:
//
//	w, err := watcher.New("/var/lib/cartlift/cartlift.db", model)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := w.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer w.Stop()
package watcher
