// Package widget holds the behaviour of the board widgets independent of
// how they are drawn: stream URL handling, announcement scrolling, the
// running text ticker and the Indonesian clock formats.
//
// Time-driven pieces (Clock, BoardScroll, Marquee) are mounted on a
// schedule.Group and stop when the group stops. Both the HTML board and the
// terminal preview render from these values.
package widget
