package model

import "errors"

// State is the lifecycle position of a request.
type State string

const (
	StateNew     State = "new"
	StateOpen    State = "open"
	StateArchive State = "archive"
)

var (
	// ErrRequestModified is returned when a request changed between load and update.
	ErrRequestModified = errors.New("data request was modified concurrently")
	// ErrUnsupportedFilter is returned for an equality filter on a column that cannot be searched.
	ErrUnsupportedFilter = errors.New("unsupported search filter")
)

// IsValid reports whether s is a known state.
func (s State) IsValid() bool {
	return s == StateNew || s == StateOpen || s == StateArchive
}

// CanTransitionTo reports whether a request in s may move to next.
// Staying in the same state is always allowed; archive is terminal.
func (s State) CanTransitionTo(next State) bool {
	if s == next {
		return true
	}
	switch s {
	case StateNew:
		return next == StateOpen || next == StateArchive
	case StateOpen:
		return next == StateArchive
	}
	return false
}

// DataRequest is one request for access to a dataset's data.
type DataRequest struct {
	ID             string `json:"id"`
	SenderName     string `json:"senderName"`
	SenderUserID   string `json:"senderUserId"`
	Organization   string `json:"organization"`
	EmailAddress   string `json:"emailAddress"`
	MessageContent string `json:"messageContent"`
	PackageID      string `json:"packageId"`
	State          State  `json:"state"`
	DataShared     bool   `json:"dataShared"`
	Rejected       bool   `json:"rejected"`
	CreatedAt      int64  `json:"createdAt"`
	ModifiedAt     int64  `json:"modifiedAt"`
}

// MaintainerAssignment snapshots one maintainer of the dataset at request time.
// MaintainerID and Email hold the raw token when the maintainer did not resolve.
type MaintainerAssignment struct {
	RequestID    string `json:"requestId"`
	MaintainerID string `json:"maintainerId"`
	Email        string `json:"email"`
}

// RequestSearchFilters narrows a request search. Equals keys are logical field
// names such as "state" or "package_id".
type RequestSearchFilters struct {
	Equals       map[string]interface{}
	PackageIDs   []string
	MaintainerID string
	Limit        int
	OrderBy      string
	Ascending    bool
}

// CreateRequest is the body of POST /requests.
type CreateRequest struct {
	SenderName     string `json:"senderName" validate:"required,notblank,max=255"`
	Organization   string `json:"organization" validate:"required,notblank,max=255"`
	EmailAddress   string `json:"emailAddress" validate:"required,email,max=255"`
	MessageContent string `json:"messageContent" validate:"required,notblank"`
	PackageID      string `json:"packageId" validate:"required,notblank"`
}

// PatchRequest carries the fields to change. Nil fields are left untouched.
type PatchRequest struct {
	State      *string `json:"state,omitempty" validate:"omitempty,request_state"`
	DataShared *bool   `json:"dataShared,omitempty"`
	Rejected   *bool   `json:"rejected,omitempty"`
}

// CreateResult is what request creation hands back.
type CreateResult struct {
	Request     DataRequest            `json:"request"`
	Maintainers []MaintainerAssignment `json:"maintainers"`
}

// Action is a maintainer's response to a request.
type Action string

const (
	ActionReply         Action = "reply"
	ActionReject        Action = "reject"
	ActionShare         Action = "share"
	ActionReplyAndShare Action = "reply_and_share"
	ActionNotShared     Action = "not_shared"
)

// Scope selects which requests a listing covers.
type Scope string

const (
	ScopeCurrentUser  Scope = "current_user"
	ScopeOrganization Scope = "organization"
	ScopeAll          Scope = "all"
)

// RequestDetail is a request together with its maintainer snapshot.
type RequestDetail struct {
	DataRequest
	Maintainers []MaintainerAssignment `json:"maintainers"`
}
