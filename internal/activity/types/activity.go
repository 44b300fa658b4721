package types

// AppStatus is running or suspended.
type AppStatus string

const (
	StatusRunning   AppStatus = "running"
	StatusSuspended AppStatus = "suspended"
)

// ActiveApp is one app in the session's task list.
type ActiveApp struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Status    AppStatus `json:"status"`
	StartTime string    `json:"startTime"`
}

// ActivityList is the task list payload.
type ActivityList struct {
	Running   []ActiveApp `json:"running"`
	Suspended []ActiveApp `json:"suspended"`
	Total     int         `json:"total"`
}
