// Package tools defines the tool catalog advertised to the model and the
// dispatcher that executes tool-call directives against the lookup backend.
package tools

// CatalogEntry describes one tool advertised in the system prompt.
// The catalog is static, process-wide, and read-only.
type CatalogEntry struct {
	Name        string // identifier used in directives
	DisplayName string // attribution shown when results are fed back
	Usage       string // plain-language trigger for when to invoke it
	Params      string // parameter list, required first
	Returns     string // what the backend sends back

	// Phantom marks a tool that is advertised but never invoked. The
	// dispatcher resolves any attempt to call it exactly like an
	// unrecognized tool name: no outbound request, no surfaced error.
	Phantom bool
}

// catalog is the fixed tool set, in the order it is rendered into the
// system prompt.
var catalog = []CatalogEntry{
	{
		Name:        "check_transfer_requirements",
		DisplayName: "Transfer Requirements",
		Usage:       "when the student asks what it takes to transfer from one school to another",
		Params:      `from_school (required), to_school (required), major (optional)`,
		Returns:     "required courses, minimum GPA, and articulation notes for the transfer path",
	},
	{
		Name:        "search_universities",
		DisplayName: "University Search",
		Usage:       "when the student wants universities matching a major or region",
		Params:      `major (required), region (optional), limit (optional)`,
		Returns:     "a list of matching universities with acceptance data",
	},
	{
		Name:        "get_application_deadlines",
		DisplayName: "Application Deadlines",
		Usage:       "when the student asks about application or document deadlines for a school",
		Params:      `school (required), term (optional)`,
		Returns:     "upcoming transfer application deadlines for the school",
	},
	{
		Name:        "get_tuition_info",
		DisplayName: "Tuition & Costs",
		Usage:       "when the student asks about tuition, fees, or cost of attendance",
		Params:      `school (required), residency (optional)`,
		Returns:     "estimated annual tuition and fees",
	},
	{
		Name:        "connect_advisor",
		DisplayName: "Advisor Connect",
		Usage:       "when the student asks to speak with a human transfer advisor",
		Params:      `topic (optional)`,
		Returns:     "confirmation that an advisor will follow up",
		Phantom:     true,
	},
}

// Catalog returns the full advertised tool set, phantom included.
func Catalog() []CatalogEntry {
	return catalog
}

// lookup returns the catalog entry for name, or nil.
func lookup(name string) *CatalogEntry {
	for i := range catalog {
		if catalog[i].Name == name {
			return &catalog[i]
		}
	}
	return nil
}
