package model

// NoCity is reported as top city when no customer has a city
const NoCity = "N/A"

// StatsSnapshot is computed on demand and never persisted
type StatsSnapshot struct {
	Total         int64   `json:"total" msgpack:"total"`
	Today         int64   `json:"today" msgpack:"today"`
	ThisMonth     int64   `json:"thisMonth" msgpack:"thisMonth"`
	Last7Days     int64   `json:"last7Days" msgpack:"last7Days"`
	Active        int64   `json:"active" msgpack:"active"`
	Inactive      int64   `json:"inactive" msgpack:"inactive"`
	Individuals   int64   `json:"individuals" msgpack:"individuals"`
	Organizations int64   `json:"organizations" msgpack:"organizations"`
	MeanAge       float64 `json:"meanAge" msgpack:"meanAge"`
	TopCity       string  `json:"topCity" msgpack:"topCity"`
	TopCityCount  int64   `json:"topCityCount" msgpack:"topCityCount"`
}
