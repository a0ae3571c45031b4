// Package schedule runs the recurring timers of the board widgets (clock
// refresh, board scroll, ticker) and tears them down together when a widget
// is unmounted.
//
//	g := schedule.NewGroup(ctx)
//	g.Every(200*time.Millisecond, refreshClock)
//	defer g.Stop()
package schedule
