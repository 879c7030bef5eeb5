// Package motion implements the cursor motions and text objects of the modal
// editing engine.
//
// Every motion is a pure function of a text.Snapshot, a cursor and a count.
// Motions never mutate their inputs and always clamp their result to the
// document. The result is a Range whose Start is the original cursor and
// whose End is the motion target; operators normalise the ordering.
//
// Word motions are driven by Classify (w, b, e, ge) and ClassifyBig
// (W, B, E, gE). Line ends count as whitespace, so word motions flow across
// lines and skip blank lines.
//
// A motion that cannot move (a find that does not match, l on the last
// character) reports ok=false; the cursor stays put and an operator waiting
// for the motion does nothing.
package motion
