package model

import "errors"

// Flag names the outcome being counted.
type Flag string

const (
	FlagRequest          Flag = "request"
	FlagReplied          Flag = "replied"
	FlagDeclined         Flag = "declined"
	FlagShared           Flag = "shared"
	FlagSharedAndReplied Flag = "shared and replied"
)

// ErrCounterNotApplied is returned when the counter upsert reports no affected row.
var ErrCounterNotApplied = errors.New("counter increment was not applied")

// Flags lists every accepted flag.
var Flags = []Flag{FlagRequest, FlagReplied, FlagDeclined, FlagShared, FlagSharedAndReplied}

// IsValid reports whether f is one of Flags.
func (f Flag) IsValid() bool {
	for _, known := range Flags {
		if f == known {
			return true
		}
	}
	return false
}

// Delta is the amount each counter column moves by for one increment.
type Delta struct {
	Requests int64
	Replied  int64
	Declined int64
	Shared   int64
}

// Delta returns the column increments implied by f.
func (f Flag) Delta() Delta {
	switch f {
	case FlagRequest:
		return Delta{Requests: 1}
	case FlagReplied:
		return Delta{Replied: 1}
	case FlagDeclined:
		return Delta{Declined: 1}
	case FlagShared:
		return Delta{Shared: 1}
	case FlagSharedAndReplied:
		return Delta{Shared: 1, Replied: 1}
	}
	return Delta{}
}

// RequestCounters is the running tally for one dataset.
type RequestCounters struct {
	PackageID string `json:"packageId"`
	OrgID     string `json:"orgId"`
	Requests  int64  `json:"requests"`
	Replied   int64  `json:"replied"`
	Declined  int64  `json:"declined"`
	Shared    int64  `json:"shared"`
}

// Add accumulates other into c.
func (c *RequestCounters) Add(other RequestCounters) {
	c.Requests += other.Requests
	c.Replied += other.Replied
	c.Declined += other.Declined
	c.Shared += other.Shared
}

// IncrementRequest is the body of POST /counters/{packageId}/increment.
type IncrementRequest struct {
	Flag string `json:"flag" validate:"required,counter_flag"`
}
