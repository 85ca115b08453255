package route

type Route struct {
	ID             string      `json:"route_id"`
	Name           string      `json:"name"`
	TotalDistanceM *float64    `json:"total_distance_m"`
	TurnPoints     []TurnPoint `json:"turn_points"`
}

type TurnPoint struct {
	Sequence          int      `json:"sequence"`
	Lat               float64  `json:"lat"`
	Lng               float64  `json:"lng"`
	Direction         string   `json:"direction"`
	Angle             *float64 `json:"angle,omitempty"`
	DistanceFromStart float64  `json:"distance_from_start"`
	DistanceToNext    float64  `json:"distance_to_next"`
	GuidanceID        string   `json:"guidance_id"`
	TriggerDistance   float64  `json:"trigger_distance"`
}
