package pipeline

// Platform identifies one of the supported retail platforms.
type Platform string

const (
	PlatformAmazon  Platform = "amazon"
	PlatformWalmart Platform = "walmart"
	PlatformBestBuy Platform = "bestbuy"
)

// AllPlatforms fixes the canonical iteration order for SearchResults.
// Extraction records and report breakdown lines follow this order.
var AllPlatforms = []Platform{PlatformAmazon, PlatformWalmart, PlatformBestBuy}

// PriceRecord is the result of one extraction attempt for one platform.
// Either Price is set and Err is empty, or Price is nil and the record
// carries an error (Err set, Availability = "Error extracting").
type PriceRecord struct {
	Platform     Platform `json:"platform"`
	Price        *float64 `json:"price"`
	Title        string   `json:"title"`
	URL          string   `json:"url"`
	Availability string   `json:"availability"`
	Err          string   `json:"error,omitempty"`
}

// State is threaded through the three pipeline stages. Each stage returns
// a new State rather than mutating its input.
type State struct {
	// ProductQuery is set once at initiation and never mutated.
	ProductQuery string `json:"product_query"`

	// SearchResults maps platform to a direct product page URL. A platform
	// with no URL found is simply absent.
	SearchResults map[Platform]string `json:"search_results,omitempty"`

	// PriceData holds one record per SearchResults entry, in canonical
	// platform order.
	PriceData []PriceRecord `json:"price_data,omitempty"`

	// FinalReport is the rendered comparison report, or the fixed
	// no-prices message.
	FinalReport string `json:"final_report,omitempty"`

	// Error marks a step-wide failure. Once set, later stages are skipped.
	Error string `json:"error,omitempty"`

	// Confidence is set only by the report stage; nil until then.
	Confidence *float64 `json:"confidence_score,omitempty"`
}

// Failed reports whether a step-wide error has been recorded.
func (s State) Failed() bool { return s.Error != "" }

// OrderedPlatforms returns the platforms present in SearchResults in
// canonical order. Go randomizes map iteration, so this defines the
// iteration order the extraction and report stages rely on.
func (s State) OrderedPlatforms() []Platform {
	var out []Platform
	for _, p := range AllPlatforms {
		if _, ok := s.SearchResults[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// ValidPrices returns the prices of all records that carry one.
func (s State) ValidPrices() []float64 {
	var out []float64
	for _, r := range s.PriceData {
		if r.Price != nil {
			out = append(out, *r.Price)
		}
	}
	return out
}
