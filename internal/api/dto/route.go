package dto

import "freight-route-service/internal/report"

type RouteQuery struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type BatchRouteRequest struct {
	Queries []RouteQuery `json:"queries"`
}

// One answer of a batch. Exactly one of Route, NotFound and Error is set.
type BatchRouteItem struct {
	From     string           `json:"from"`
	To       string           `json:"to"`
	Found    bool             `json:"found"`
	Route    *report.Summary  `json:"route,omitempty"`
	NotFound *report.NotFound `json:"not_found,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type BatchRouteResponse struct {
	Results []BatchRouteItem `json:"results"`
}
