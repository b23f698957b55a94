package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/orbitscope/satassist-go/internal/apptype"
	"github.com/orbitscope/satassist-go/internal/geospatial"
)

// dispatch routes on the primary intent. The switch is total over the
// closed intent set; information query is both a member and the default
// arm, so unknown values cannot fall through silently.
func (r *Resolver) dispatch(analysis apptype.QueryAnalysis, results []apptype.SearchResult, geo *apptype.GeospatialPayload) apptype.Response {
	switch analysis.Intents.Primary() {
	case apptype.IntentDataRequest:
		return r.handleDataRequest(analysis, results, geo)
	case apptype.IntentGeospatialQuery:
		return r.handleGeospatialQuery(analysis, results, geo)
	case apptype.IntentTechnicalSupport:
		return r.handleTechnicalSupport(analysis)
	case apptype.IntentNavigationHelp:
		return r.handleNavigationHelp(analysis)
	case apptype.IntentInformationQuery:
		return r.handleInformationQuery(analysis, results, geo)
	default:
		return r.handleInformationQuery(analysis, results, geo)
	}
}

func (r *Resolver) handleDataRequest(analysis apptype.QueryAnalysis, results []apptype.SearchResult, geo *apptype.GeospatialPayload) apptype.Response {
	var b strings.Builder
	b.WriteString("I can help you access satellite data from MOSDAC. ")

	var suggestions []string
	var sources []apptype.SourceRef

	satellites := entityTexts(analysis.Entities, apptype.EntitySatellite)
	products := entityTexts(analysis.Entities, apptype.EntityProduct)

	if len(satellites) > 0 {
		fmt.Fprintf(&b, "I found that you're interested in %s data. ", strings.Join(satellites, ", "))
		suggestions = append(suggestions,
			fmt.Sprintf("Browse %s data products", satellites[0]),
			fmt.Sprintf("Check %s data availability", satellites[0]),
			"View data download guidelines")
	}

	if len(products) > 0 {
		fmt.Fprintf(&b, "For %s products, ", strings.Join(products, ", "))
		suggestions = append(suggestions,
			fmt.Sprintf("Download %s data", products[0]),
			fmt.Sprintf("Learn about %s specifications", products[0]),
			"View product documentation")
	}

	if geo != nil && geo.HasSpatialData {
		b.WriteString("I can see you've specified a location. ")
		if len(geo.Coordinates) > 0 {
			coord := geo.Coordinates[0]
			fmt.Fprintf(&b, "For coordinates %.2f, %.2f, ", coord.Lat, coord.Lon)
		}
		suggestions = append(suggestions,
			"View data coverage for your area",
			"Check spatial resolution options",
			"Download regional data subset")
	}

	if len(results) > 0 {
		b.WriteString("Here are some relevant data sources I found:\n")
		for _, result := range topResults(results, 3) {
			fmt.Fprintf(&b, "• %s: %s...\n", result.Node.Name, truncate(result.Node.Description, 100))
			sources = append(sources, sourceRef(result))
		}
	}

	b.WriteString("\n\nTo access data:\n")
	b.WriteString("1. Register on the MOSDAC portal\n")
	b.WriteString("2. Browse the data catalog\n")
	b.WriteString("3. Select your area of interest\n")
	b.WriteString("4. Choose data products and download\n")

	confidence := analysis.Confidence + 0.2
	if confidence > 1.0 {
		confidence = 1.0
	}

	return apptype.Response{
		Answer:      b.String(),
		Confidence:  confidence,
		Sources:     sources,
		Suggestions: capSuggestions(suggestions),
		Geospatial:  geo,
	}
}

func (r *Resolver) handleGeospatialQuery(analysis apptype.QueryAnalysis, results []apptype.SearchResult, geo *apptype.GeospatialPayload) apptype.Response {
	var b strings.Builder
	b.WriteString("I can help you with spatial data queries. ")

	var suggestions []string
	var sources []apptype.SourceRef

	if geo != nil && geo.HasSpatialData {
		b.WriteString(r.geo.SpatialContext(*geo))
		b.WriteString("\n\n")

		if len(geo.Coordinates) > 0 {
			fmt.Fprintf(&b, "Found %d coordinate location(s). ", len(geo.Coordinates))
			for i, coord := range geo.Coordinates {
				if i == 2 {
					break
				}
				fmt.Fprintf(&b, "Location: %.4f°, %.4f° ", coord.Lat, coord.Lon)
			}
		}
		if len(geo.Locations) > 0 {
			names := make([]string, 0, 3)
			for _, loc := range geo.Locations {
				if len(names) == 3 {
					break
				}
				names = append(names, loc.Name)
			}
			fmt.Fprintf(&b, "Identified locations: %s. ", strings.Join(names, ", "))
		}

		coverage := geospatial.DataCoverage(geo.Coordinates)
		b.WriteString("\n\nAvailable satellite data for this area:\n")
		fmt.Fprintf(&b, "• Satellites: %s\n", strings.Join(coverage.Satellites[:4], ", "))
		fmt.Fprintf(&b, "• Data products: %s\n", strings.Join(coverage.DataProducts[:4], ", "))
		fmt.Fprintf(&b, "• Temporal coverage: %s\n", coverage.TemporalCoverage)
		if len(coverage.RecommendedProducts) > 0 {
			fmt.Fprintf(&b, "\nRecommended products: %s", strings.Join(coverage.RecommendedProducts[:3], ", "))
		}

		suggestions = append(suggestions, geo.Suggestions...)
	} else {
		b.WriteString("I didn't detect specific coordinates or location names in your query. ")
		b.WriteString("Please provide coordinates (e.g., 28.6, 77.2) or location names (e.g., Delhi, Mumbai) ")
		b.WriteString("for more specific spatial information.")

		suggestions = append(suggestions,
			"Specify coordinates or location name",
			"Browse data by region",
			"Use the interactive map")
	}

	for _, result := range topResults(results, 2) {
		sources = append(sources, sourceRef(result))
	}

	return apptype.Response{
		Answer:      b.String(),
		Confidence:  analysis.Confidence,
		Sources:     sources,
		Suggestions: capSuggestions(suggestions),
		Geospatial:  geo,
	}
}

func (r *Resolver) handleTechnicalSupport(analysis apptype.QueryAnalysis) apptype.Response {
	var b strings.Builder
	b.WriteString("I'm here to help with technical issues. ")

	var suggestions []string
	keywords := analysis.Keywords

	if containsKeyword(keywords, "error") || containsKeyword(keywords, "problem") {
		b.WriteString("For error troubleshooting:\n")
		b.WriteString("1. Check your internet connection\n")
		b.WriteString("2. Clear browser cache and cookies\n")
		b.WriteString("3. Try using a different browser\n")
		b.WriteString("4. Ensure you're logged in to your MOSDAC account\n\n")
		suggestions = append(suggestions,
			"Contact technical support",
			"Check system requirements",
			"View troubleshooting guide",
			"Submit error report")
	}

	if containsKeyword(keywords, "download") {
		b.WriteString("For download issues:\n")
		b.WriteString("• Ensure you have sufficient storage space\n")
		b.WriteString("• Check file size limits\n")
		b.WriteString("• Verify data access permissions\n")
		b.WriteString("• Use download manager for large files\n\n")
		suggestions = append(suggestions,
			"Check download guidelines",
			"Verify account permissions",
			"Use alternative download method")
	}

	if containsKeyword(keywords, "login") || containsKeyword(keywords, "access") {
		b.WriteString("For access issues:\n")
		b.WriteString("• Verify your username and password\n")
		b.WriteString("• Check if your account is active\n")
		b.WriteString("• Reset password if needed\n")
		b.WriteString("• Contact admin for account issues\n\n")
		suggestions = append(suggestions,
			"Reset password",
			"Register new account",
			"Contact support team")
	}

	b.WriteString("If the issue persists, please contact our support team with specific error details.")

	return apptype.Response{
		Answer:      b.String(),
		Confidence:  0.8,
		Sources:     []apptype.SourceRef{},
		Suggestions: capSuggestions(suggestions),
	}
}

type portalSection struct {
	name        string
	description string
}

// portalSections maps portal areas to navigation hints, checked in order.
var portalSections = []portalSection{
	{"data catalog", "Browse the data catalog section to find available datasets"},
	{"download", "Use the download section to access data files"},
	{"user registration", "Register in the user section to access premium features"},
	{"documentation", "Check the documentation section for detailed guides"},
	{"faq", "Visit the FAQ section for common questions and answers"},
	{"contact", "Use the contact section to reach support team"},
}

func (r *Resolver) handleNavigationHelp(analysis apptype.QueryAnalysis) apptype.Response {
	var b strings.Builder
	b.WriteString("I can help you navigate the MOSDAC portal. ")

	var found []portalSection
	for _, section := range portalSections {
		for _, keyword := range analysis.Keywords {
			if strings.Contains(section.name, keyword) {
				found = append(found, section)
				break
			}
		}
	}

	if len(found) > 0 {
		b.WriteString("Here's how to find what you're looking for:\n\n")
		for _, section := range found {
			fmt.Fprintf(&b, "• %s: %s\n", titleCase(section.name), section.description)
		}
	} else {
		b.WriteString("Here are the main sections of the MOSDAC portal:\n\n")
		b.WriteString("• Data Catalog: Browse available satellite datasets\n")
		b.WriteString("• Download Center: Access and download data\n")
		b.WriteString("• User Dashboard: Manage your account and downloads\n")
		b.WriteString("• Documentation: Guides and technical specifications\n")
		b.WriteString("• Support: FAQ and contact information\n")
	}

	return apptype.Response{
		Answer:     b.String(),
		Confidence: 0.9,
		Sources:    []apptype.SourceRef{},
		Suggestions: capSuggestions([]string{
			"Browse data catalog",
			"View user guide",
			"Check FAQ section",
			"Access download center",
			"Visit documentation",
		}),
	}
}

const informationMatchThreshold = 0.3

func (r *Resolver) handleInformationQuery(analysis apptype.QueryAnalysis, results []apptype.SearchResult, geo *apptype.GeospatialPayload) apptype.Response {
	var b strings.Builder
	var suggestions []string
	var sources []apptype.SourceRef

	if len(results) > 0 && results[0].Similarity > informationMatchThreshold {
		best := results[0]
		fmt.Fprintf(&b, "Based on your query about '%s', here's what I found:\n\n", analysis.Raw)
		fmt.Fprintf(&b, "%s: %s\n\n", best.Node.Name, best.Node.Description)

		if len(best.Node.Attributes) > 0 {
			b.WriteString("Additional details:\n")
			for _, key := range sortedAttributeKeys(best.Node.Attributes) {
				fmt.Fprintf(&b, "• %s: %s\n", titleCase(key), best.Node.Attributes[key])
			}
		}

		sources = append(sources, sourceRef(best))

		related := r.store.Related(best.Node.ID, "", 1)
		if len(related) > 0 {
			b.WriteString("\nRelated information:\n")
			for i, node := range related {
				if i == 3 {
					break
				}
				fmt.Fprintf(&b, "• %s: %s...\n", node.Name, truncate(node.Description, 100))
			}
		}
	} else {
		b.WriteString(generalPortalInfo)
	}

	if geo != nil && geo.HasSpatialData {
		fmt.Fprintf(&b, "\n\nSpatial context: %s", r.geo.SpatialContext(*geo))
	}

	for i, entity := range analysis.Entities {
		if i == 2 {
			break
		}
		suggestions = append(suggestions, fmt.Sprintf("Learn more about %s", entity.Text))
	}
	for i, keyword := range analysis.Keywords {
		if i == 3 {
			break
		}
		suggestions = append(suggestions, fmt.Sprintf("Search for %s data", keyword))
	}
	suggestions = append(suggestions,
		"Browse data catalog",
		"View satellite missions",
		"Check data products",
		"Access documentation")

	return apptype.Response{
		Answer:      b.String(),
		Confidence:  analysis.Confidence,
		Sources:     sources,
		Suggestions: capSuggestions(suggestions),
		Geospatial:  geo,
	}
}

const generalPortalInfo = `MOSDAC (Meteorological and Oceanographic Satellite Data Archival Centre) is India's premier satellite data repository managed by ISRO.

Key features:
• Comprehensive satellite data archive from Indian and international satellites
• Ocean color, meteorological, and land observation data
• Real-time and historical datasets
• User-friendly data discovery and download interface
• Support for various data formats and processing levels

Available satellites include Oceansat, ResourceSat, INSAT, Cartosat, and international missions like Landsat and Sentinel.

The portal provides free access to most datasets after user registration, with advanced features for research and operational users.`

func entityTexts(entities []apptype.Entity, label apptype.EntityType) []string {
	var texts []string
	for _, e := range entities {
		if e.Label == label {
			texts = append(texts, e.Text)
		}
	}
	return texts
}

func topResults(results []apptype.SearchResult, n int) []apptype.SearchResult {
	if len(results) > n {
		return results[:n]
	}
	return results
}

func sourceRef(result apptype.SearchResult) apptype.SourceRef {
	return apptype.SourceRef{
		Title:       result.Node.Name,
		Description: result.Node.Description,
		Type:        result.Node.Type,
		Relevance:   result.Similarity,
	}
}

func capSuggestions(suggestions []string) []string {
	if len(suggestions) > 5 {
		return suggestions[:5]
	}
	return suggestions
}

func containsKeyword(keywords []string, want string) bool {
	for _, k := range keywords {
		if strings.Contains(k, want) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}

func sortedAttributeKeys(attrs map[string]string) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func titleCase(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
