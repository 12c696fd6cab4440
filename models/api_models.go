// models/api_models.go
package models

// ArrivalsResponse is the JSON body returned by GET /api/arrivals.
type ArrivalsResponse struct {
	Airport string           `json:"airport"`
	Date    string           `json:"date,omitempty"` // YYYY-MM-DD filter, if one was given
	Count   int              `json:"count"`
	Flights []ResolvedFlight `json:"flights"`
}

// CollectResponse is the JSON body returned by POST /api/admin/collect.
type CollectResponse struct {
	Message string        `json:"message"`
	Run     CollectionRun `json:"run"`
}
