package app

import (
	"tableflip.dev/bricks/pkg/collection/viewmodel"
	"tableflip.dev/bricks/pkg/selection"
)

// Listener receives every change to the displayed state. Implementations
// must not call back into the Service. ImageReady is delivered from a
// background goroutine; the other callbacks run on the caller's goroutine.
type Listener interface {
	RowsReset(rows []viewmodel.Row)
	RowAdded(row viewmodel.Row, index int)
	RowUpdated(row viewmodel.Row, index int)
	RowRemoved(number string, index int)
	SummaryChanged(totals viewmodel.Totals)
	SelectionChanged(sel selection.Selection)
	ImageReady(number, path string, err error)
}

// ListenerFuncs adapts optional callbacks to a Listener. Nil fields are
// ignored.
type ListenerFuncs struct {
	OnRowsReset        func(rows []viewmodel.Row)
	OnRowAdded         func(row viewmodel.Row, index int)
	OnRowUpdated       func(row viewmodel.Row, index int)
	OnRowRemoved       func(number string, index int)
	OnSummaryChanged   func(totals viewmodel.Totals)
	OnSelectionChanged func(sel selection.Selection)
	OnImageReady       func(number, path string, err error)
}

// NopListener discards all events.
var NopListener Listener = ListenerFuncs{}

func (l ListenerFuncs) RowsReset(rows []viewmodel.Row) {
	if l.OnRowsReset != nil {
		l.OnRowsReset(rows)
	}
}

func (l ListenerFuncs) RowAdded(row viewmodel.Row, index int) {
	if l.OnRowAdded != nil {
		l.OnRowAdded(row, index)
	}
}

func (l ListenerFuncs) RowUpdated(row viewmodel.Row, index int) {
	if l.OnRowUpdated != nil {
		l.OnRowUpdated(row, index)
	}
}

func (l ListenerFuncs) RowRemoved(number string, index int) {
	if l.OnRowRemoved != nil {
		l.OnRowRemoved(number, index)
	}
}

func (l ListenerFuncs) SummaryChanged(totals viewmodel.Totals) {
	if l.OnSummaryChanged != nil {
		l.OnSummaryChanged(totals)
	}
}

func (l ListenerFuncs) SelectionChanged(sel selection.Selection) {
	if l.OnSelectionChanged != nil {
		l.OnSelectionChanged(sel)
	}
}

func (l ListenerFuncs) ImageReady(number, path string, err error) {
	if l.OnImageReady != nil {
		l.OnImageReady(number, path, err)
	}
}

// sink forwards selection outcomes into the service's row cache.
type sink struct {
	s *Service
}

func (k sink) RowUpdated(row viewmodel.Row) {
	idx := viewmodel.Replace(k.s.rows, row)
	k.s.listener.RowUpdated(row, idx)
}

func (k sink) SummaryChanged() {
	k.s.recompute()
}

func (k sink) SelectionChanged(sel selection.Selection) {
	k.s.listener.SelectionChanged(sel)
}
