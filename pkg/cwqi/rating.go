package cwqi

// Rating is a qualitative band of the index.
type Rating struct {
	Name     string  `json:"name"`
	MinScore float64 `json:"minScore"`
	Color    string  `json:"color"`
}

// Ratings lists the bands from best to worst. A score belongs to the first band whose
// MinScore it reaches.
var Ratings = []Rating{
	{Name: "Excellent", MinScore: 95, Color: "#1a9641"},
	{Name: "Very Good", MinScore: 89, Color: "#73c378"},
	{Name: "Good", MinScore: 80, Color: "#c4e687"},
	{Name: "Fair", MinScore: 65, Color: "#fec981"},
	{Name: "Marginal", MinScore: 45, Color: "#f07c4a"},
	{Name: "Poor", MinScore: 0, Color: "#d7191c"},
}

// RatingFor maps a score to its band.
func RatingFor(score float64) Rating {
	switch {
	case score >= 95:
		return Ratings[0]
	case score >= 89:
		return Ratings[1]
	case score >= 80:
		return Ratings[2]
	case score >= 65:
		return Ratings[3]
	case score >= 45:
		return Ratings[4]
	default:
		return Ratings[5]
	}
}
