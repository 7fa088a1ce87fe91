// Package session coordinates probing and extraction for one front end.
//
// A Session admits one operation at a time: a probe or batch requested while
// another is in flight fails with services.ErrBusy, and the guard is released
// before BatchFinished is delivered. Batches additionally hold an advisory
// file lock in the state directory so two csub processes never write the
// same output folder at once. Every batch event is recorded in the history
// ledger when one is configured.
package session
