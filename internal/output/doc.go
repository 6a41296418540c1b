// Package output provides structured output handling for the nikki CLI.
//
// Every command owns a Printer built from the cobra writers:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), output.IsTTY(cmd.OutOrStdout())).
//		WithStderr(cmd.ErrOrStderr())
//
// Report files are never written through the Printer; it carries status
// lines ("wrote ideas.md"), warnings and errors only.
//
// # Exit Codes
//
//	output.ExitSuccess     // 0: success, warnings included
//	output.ExitUserError   // 1: bad flags, missing source, no matching documents
//	output.ExitSystemError // 2: report could not be written
//
// # Warnings
//
// Per-file problems (undated pages, malformed Toggl rows) are printed with
// Printer.Warn on stderr and never change the exit code. In JSON mode they
// travel in the result payload instead.
package output
