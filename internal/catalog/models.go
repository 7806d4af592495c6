package catalog

// City is a seed point for create-mode forms: the dialog host picks one
// and passes it along as the city hint.
type City struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Category is an experience category offered by the form's picker.
type Category struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}
