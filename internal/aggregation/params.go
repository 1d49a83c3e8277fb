package aggregation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/wso2/data-request-api/internal/aggregation/model"
	"github.com/wso2/data-request-api/internal/maintainer"
	"github.com/wso2/data-request-api/internal/system/error/serviceerror"
)

const (
	paramFilterByMaintainers   = "filter_by_maintainers"
	paramFilterByOrganizations = "filter_by_organizations"
	paramOrderBy               = "order_by"
)

var orderAliases = map[string]model.Order{
	"asc":                         model.OrderTitleAsc,
	"desc":                        model.OrderTitleDesc,
	string(model.OrderTitleAsc):   model.OrderTitleAsc,
	string(model.OrderTitleDesc):  model.OrderTitleDesc,
	string(model.OrderMostRecent): model.OrderMostRecent,
	string(model.OrderShared):     model.OrderShared,
	string(model.OrderRequests):   model.OrderRequests,
}

// ParseViewParams reads the filter and order parameters of a view request.
// Every parameter may repeat.
//
//	filter_by_maintainers=org:<name>|maintainers:<id,id> or org:<name>|maintainers:*all*
//	filter_by_organizations=<name,name>
//	order_by=<order>|org:<name>
func ParseViewParams(values url.Values) (model.ViewParams, *serviceerror.ServiceError) {
	var params model.ViewParams

	for _, raw := range values[paramFilterByMaintainers] {
		clause, err := parseMaintainerClause(raw)
		if err != nil {
			return model.ViewParams{}, err
		}
		params.MaintainerFilters = append(params.MaintainerFilters, clause)
	}

	for _, raw := range values[paramFilterByOrganizations] {
		params.Organizations = append(params.Organizations, maintainer.SplitField(raw)...)
	}

	for _, raw := range values[paramOrderBy] {
		clause, err := parseOrderClause(raw)
		if err != nil {
			return model.ViewParams{}, err
		}
		params.Orders = append(params.Orders, clause)
	}

	return params, nil
}

func parseMaintainerClause(raw string) (model.MaintainerClause, *serviceerror.ServiceError) {
	orgPart, maintainersPart, ok := strings.Cut(raw, "|")
	if !ok {
		return model.MaintainerClause{}, invalidParam(paramFilterByMaintainers, raw)
	}
	org, ok := prefixedValue(orgPart, "org")
	if !ok || org == "" {
		return model.MaintainerClause{}, invalidParam(paramFilterByMaintainers, raw)
	}
	list, ok := prefixedValue(maintainersPart, "maintainers")
	if !ok {
		return model.MaintainerClause{}, invalidParam(paramFilterByMaintainers, raw)
	}

	ids := maintainer.SplitField(list)
	if len(ids) > 0 && ids[0] == model.WildcardMaintainers {
		return model.MaintainerClause{Org: org, All: true}, nil
	}
	return model.MaintainerClause{Org: org, IDs: ids}, nil
}

func parseOrderClause(raw string) (model.OrderClause, *serviceerror.ServiceError) {
	orderPart, orgPart, ok := strings.Cut(raw, "|")
	if !ok {
		return model.OrderClause{}, invalidParam(paramOrderBy, raw)
	}
	order, known := orderAliases[strings.ToLower(strings.TrimSpace(orderPart))]
	if !known {
		return model.OrderClause{}, serviceerror.FieldValidationError(map[string]string{
			paramOrderBy: fmt.Sprintf("unknown order '%s'", orderPart),
		})
	}
	org, ok := prefixedValue(orgPart, "org")
	if !ok || org == "" {
		return model.OrderClause{}, invalidParam(paramOrderBy, raw)
	}
	return model.OrderClause{Org: org, Order: order}, nil
}

// prefixedValue returns v from "key:v".
func prefixedValue(part, key string) (string, bool) {
	k, v, ok := strings.Cut(strings.TrimSpace(part), ":")
	if !ok || k != key {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func invalidParam(name, raw string) *serviceerror.ServiceError {
	return serviceerror.FieldValidationError(map[string]string{
		name: fmt.Sprintf("malformed value '%s'", raw),
	})
}
