package contract

import "github.com/alexanderramin/trayflow/internal/app"

type TodayRequest = app.TodayRequest

type TaskPayload = app.TaskPayload

type Task = app.Task

type TaskGroup = app.TaskGroup

type TodayResponse = app.TodayResponse
