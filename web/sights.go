package web

// Sight is a Vienna landmark shown at the top of the dashboard
type Sight struct {
	Name     string
	ImageURL string
}

// Sights in picker order; the first one is selected by default
var Sights = []Sight{
	{
		Name:     "St. Stephan's Cathedral",
		ImageURL: "https://images.unsplash.com/photo-1516550893923-42d28e5677af?ixlib=rb-1.2.1&ixid=eyJhcHBfaWQiOjEyMDd9&auto=format&fit=crop&w=1652&q=80",
	},
	{
		Name:     "Schoenbrunn Gardens",
		ImageURL: "https://images.unsplash.com/photo-1588836807555-ec6dfa2fefd2?ixlib=rb-1.2.1&ixid=eyJhcHBfaWQiOjEyMDd9&auto=format&fit=crop&w=1567&q=80",
	},
	{
		Name:     "Castle Belvedere",
		ImageURL: "https://images.unsplash.com/photo-1526581671404-349f224db79b?ixlib=rb-1.2.1&ixid=eyJhcHBfaWQiOjEyMDd9&auto=format&fit=crop&w=800&q=60",
	},
}

// findSight returns the sight with the given name, or the default one
func findSight(name string) Sight {
	for _, s := range Sights {
		if s.Name == name {
			return s
		}
	}
	return Sights[0]
}
