// Package partition classifies content into a fixed set of semantic
// domains and maps each domain to the bucket name an object store uses to
// segregate it. Grounded on
// _examples/original_source/tests/domain_partitioning_test.rs, which is the
// authoritative source for the exact bucket-name strings and matcher
// priority ordering this package must reproduce for cross-implementation
// interop.
package partition

// Domain is the closed enumeration of semantic buckets content can be
// classified into.
type Domain int

const (
	Documents Domain = iota
	Events
	Graphs
	Nodes
	Edges
	Spreadsheets
	Presentations
	Contracts
	Invoices
	Medical
	Research
	Personal
	SourceCode
	Configuration
	Music
	Images
	Videos
	Memes
	SocialMedia
	Private
)

var domainNames = map[Domain]string{
	Documents:     "Documents",
	Events:        "Events",
	Graphs:        "Graphs",
	Nodes:         "Nodes",
	Edges:         "Edges",
	Spreadsheets:  "Spreadsheets",
	Presentations: "Presentations",
	Contracts:     "Contracts",
	Invoices:      "Invoices",
	Medical:       "Medical",
	Research:      "Research",
	Personal:      "Personal",
	SourceCode:    "SourceCode",
	Configuration: "Configuration",
	Music:         "Music",
	Images:        "Images",
	Videos:        "Videos",
	Memes:         "Memes",
	SocialMedia:   "SocialMedia",
	Private:       "Private",
}

func (d Domain) String() string {
	if s, ok := domainNames[d]; ok {
		return s
	}
	return "Unknown"
}

// ParseDomain maps a domain's String() form back to a Domain value, used to
// resolve metadata_hints["content_domain"].
func ParseDomain(s string) (Domain, bool) {
	for d, name := range domainNames {
		if name == s {
			return d, true
		}
	}
	return 0, false
}

// bucketNames are the fixed, cross-implementation-stable strings each
// domain maps to.
var bucketNames = map[Domain]string{
	Documents:     "cim-documents",
	Events:        "cim-events",
	Graphs:        "cim-graphs",
	Nodes:         "cim-graphs-nodes",
	Edges:         "cim-graphs-edges",
	Spreadsheets:  "cim-office-spreadsheets",
	Presentations: "cim-office-presentations",
	Contracts:     "cim-legal-contracts",
	Invoices:      "cim-finance-invoices",
	Medical:       "cim-health-medical",
	Research:      "cim-academic-research",
	Personal:      "cim-personal",
	SourceCode:    "cim-tech-code",
	Configuration: "cim-tech-config",
	Music:         "cim-media-music",
	Images:        "cim-media-images",
	Videos:        "cim-media-videos",
	Memes:         "cim-social-memes",
	SocialMedia:   "cim-social-posts",
	Private:       "cim-private",
}

// BucketFor returns the fixed bucket name for d.
func BucketFor(d Domain) string {
	return bucketNames[d]
}
