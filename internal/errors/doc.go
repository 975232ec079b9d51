// Package errors provides coded, explained errors for the sprout CLI.
//
// Every error has a code (e.g., "E001") registered with a category, a short
// message, a longer explanation and, where one exists, a hint:
//
//   - render: the view could not be applied (E001-E019)
//   - protocol: malformed frames and events (E060-E079)
//   - server: listening, session limits, shutdown (E080-E099)
//   - config: sprout.json / sprout.yaml problems (E120-E139)
//   - cli: bad flags and arguments (E140-E159)
//   - export: writing pages to disk or S3 (E160-E179)
//
// Classify maps the sentinel errors of the sprout packages to codes, so the
// CLI can print an explanation for whatever a command returned:
//
//	if err := run(); err != nil {
//	    errors.PrintError(errors.Classify(err, "E001"))
//	    os.Exit(1)
//	}
//
// Output is colored when stderr is a terminal and NO_COLOR is unset.
package errors
