package contract

import "github.com/alexanderramin/trayflow/internal/app"

type SowRequest = app.SowRequest
