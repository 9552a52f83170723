package model

// ProductionEvent is a single count record as reported by the upstream lab API.
// Date and TimeOfDay are kept as received; they are only interpreted once a
// production day (and therefore a timezone) is known.
type ProductionEvent struct {
	MachineName string `json:"name" msgpack:"name"`
	Date        string `json:"date" msgpack:"date"`
	TimeOfDay   string `json:"time" msgpack:"time"`
	Count       int    `json:"count" msgpack:"count"`
}
