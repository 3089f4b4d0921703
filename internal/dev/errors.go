package dev

import (
	"github.com/nu7hatch/gouuid"
	"time"
)

// Report is the body returned for a failed API operation. The slug gives
// support a handle to find the matching log line.
type Report struct {
	Slug      string                 `json:"slug"`
	Time      time.Time              `json:"time"`
	Component string                 `json:"component"`
	Name      string                 `json:"name"`
	Error     string                 `json:"error"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

func NewReport(component, name string, err error, extra map[string]interface{}) Report {
	u, _ := uuid.NewV4()

	return Report{
		Slug:      u.String(),
		Time:      time.Now(),
		Component: component,
		Name:      name,
		Error:     err.Error(),
		Extra:     extra,
	}
}
