package model

import (
	countersmodel "github.com/wso2/data-request-api/internal/counters/model"
	requestmodel "github.com/wso2/data-request-api/internal/datarequest/model"
)

// Order names a sort applied to an organization's archive groups.
type Order string

const (
	OrderTitleAsc   Order = "title_asc"
	OrderTitleDesc  Order = "title_desc"
	OrderMostRecent Order = "most_recent"
	OrderShared     Order = "shared"
	OrderRequests   Order = "requests"
)

// WildcardMaintainers disables the maintainer filter for an organization.
const WildcardMaintainers = "*all*"

// MaintainerClause is one filter_by_maintainers value.
type MaintainerClause struct {
	Org string
	IDs []string
	All bool
}

// OrderClause is one order_by value.
type OrderClause struct {
	Org   string
	Order Order
}

// ViewParams holds the parsed view query parameters.
type ViewParams struct {
	MaintainerFilters []MaintainerClause
	Organizations     []string
	Orders            []OrderClause
}

// MaintainerView is a display-ready maintainer. Count is set only in ranking lists.
type MaintainerView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Count    int    `json:"count,omitempty"`
}

// RequestView is a request enriched with its dataset title and maintainers.
type RequestView struct {
	requestmodel.DataRequest
	Title       string           `json:"title"`
	Maintainers []MaintainerView `json:"maintainers"`
}

// ArchiveGroup collects the archived requests of one dataset.
type ArchiveGroup struct {
	PackageID            string           `json:"packageId"`
	Title                string           `json:"title"`
	Maintainers          []MaintainerView `json:"maintainers"`
	RequestsArchived     []RequestView    `json:"requestsArchived"`
	Shared               int64            `json:"shared"`
	Requests             int64            `json:"requests"`
	LastRequestCreatedAt int64            `json:"lastRequestCreatedAt"`
}

// OrganizationView is the aggregated view of one organization's requests.
type OrganizationView struct {
	ID              string                        `json:"id"`
	Name            string                        `json:"name"`
	Title           string                        `json:"title"`
	RequestsNew     []RequestView                 `json:"requestsNew"`
	RequestsOpen    []RequestView                 `json:"requestsOpen"`
	RequestsArchive []ArchiveGroup                `json:"requestsArchive"`
	Maintainers     []MaintainerView              `json:"maintainers"`
	Counters        countersmodel.RequestCounters `json:"counters"`
	CurrentOrder    Order                         `json:"currentOrder"`
}

// OrganizationTally counts the requests of one organization.
type OrganizationTally struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	Requests int    `json:"requests"`
}

// View is the output of one aggregation run.
type View struct {
	Organizations           []OrganizationView             `json:"organizations"`
	OrganizationsForFilters []OrganizationTally            `json:"organizationsForFilters,omitempty"`
	TotalCounters           *countersmodel.RequestCounters `json:"totalCounters,omitempty"`
}
