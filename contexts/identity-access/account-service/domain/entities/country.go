package entities

var supportedCountries = []string{
	"United States",
	"United Kingdom",
	"Canada",
	"India",
	"Australia",
	"Germany",
	"France",
	"Nigeria",
	"Kenya",
	"Brazil",
	"Mexico",
}

// Countries returns the reference list offered in the student profile form.
func Countries() []string {
	return append([]string(nil), supportedCountries...)
}
