package contract

import "github.com/alexanderramin/trayflow/internal/app"

type GapRequest = app.GapRequest

type GapReport = app.GapReport

type GapResponse = app.GapResponse
