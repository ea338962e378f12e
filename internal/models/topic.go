package models

// Topic describes one industrial automation subject area surfaced by the API.
type Topic struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// IndustrialTopics returns the static topic catalog.
func IndustrialTopics() []Topic {
	return []Topic{
		{Name: "PLC Programming", Description: "Programming logic controllers for industrial automation", Icon: "🔧"},
		{Name: "SCADA Systems", Description: "Supervisory control and data acquisition for industrial processes", Icon: "📊"},
		{Name: "Industrial IoT", Description: "Internet of Things applications in industrial settings", Icon: "🌐"},
		{Name: "Building Automation", Description: "Smart building systems and controls", Icon: "🏢"},
		{Name: "Manufacturing Execution Systems", Description: "Systems for managing manufacturing operations", Icon: "🏭"},
		{Name: "Smart Factory Solutions", Description: "Advanced technologies for factory automation", Icon: "🤖"},
	}
}
