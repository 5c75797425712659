package contract

import "github.com/alexanderramin/trayflow/internal/app"

type CompleteRequest = app.CompleteRequest

type SkipRequest = app.SkipRequest

type DueEvent = app.DueEvent

type DueResponse = app.DueResponse

type BatchItemStatus = app.BatchItemStatus

const (
	BatchApplied         BatchItemStatus = app.BatchApplied
	BatchAlreadyResolved BatchItemStatus = app.BatchAlreadyResolved
	BatchFailed          BatchItemStatus = app.BatchFailed
)

type BatchItem = app.BatchItem

type BatchResult = app.BatchResult

type TimelineEventView = app.TimelineEventView

type TimelineView = app.TimelineView
