package port

import "time"

type StageRecorder interface {
	// ObserveStage records how long one pipeline stage took and whether it failed.
	ObserveStage(stage string, took time.Duration, err error)
}

type RequestRecorder interface {
	// ObserveRequest records one served HTTP request.
	ObserveRequest(route string, code int, took time.Duration)
}
