package metric

type Event string

const (
	Success   Event = "Success"
	Failure   Event = "Failure"
	Retryable Event = "Retryable"
	Cancelled Event = "Cancelled"
)
