package weather

import "fmt"

// Record is a snapshot of current conditions. Values are kept exactly as the
// provider sent them; no unit conversion is performed.
type Record struct {
	Location    string
	TempC       string
	TempF       string
	Description string
	Humidity    string
	WindKmph    string
	FeelsLikeC  string
	FeelsLikeF  string
}

const reportTemplate = `🌤️ Weather in %[1]s:
📍 Location: %[1]s
🌡️ Temperature: %[2]s°C (%[3]s°F)
🌈 Condition: %[4]s
💧 Humidity: %[5]s%%
💨 Wind Speed: %[6]s km/h
🤔 Feels Like: %[7]s°C (%[8]s°F)`

// Text renders the weather report.
func (r Record) Text() string {
	return fmt.Sprintf(reportTemplate,
		r.Location, r.TempC, r.TempF, r.Description,
		r.Humidity, r.WindKmph, r.FeelsLikeC, r.FeelsLikeF)
}
