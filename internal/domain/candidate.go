package domain

// Experience is a single role in a candidate's work history.
type Experience struct {
	Company     string  `json:"company"`
	Role        string  `json:"role"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`
	Description string  `json:"description"`
}

// Education is a single entry in a candidate's education history.
type Education struct {
	Institution      string `json:"institution"`
	Degree           string `json:"degree"`
	YearOfGraduation int    `json:"year_of_graduation"`
	Description      string `json:"description"`
}

// RawCandidate is the unprocessed candidate record as received from the source system.
// It is passed through the pipeline untouched and returned verbatim in search results.
type RawCandidate struct {
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Email       string       `json:"email"`
	Birthdate   *string      `json:"birthdate,omitempty"`
	Age         *int         `json:"age,omitempty"`
	Phone       *string      `json:"phone,omitempty"`
	Address     *string      `json:"address,omitempty"`
	Domain      *string      `json:"domain,omitempty"`
	Skills      []string     `json:"skills"`
	Experiences []Experience `json:"experiences"`
	Education   []Education  `json:"education"`
}

// ProcessedCandidate is one corpus entry: the raw record plus engineered features
// and the embedding derived from the candidate summary.
type ProcessedCandidate struct {
	ID                 int64             `json:"id"`
	OriginalData       RawCandidate      `json:"original_data"`
	EngineeredFeatures CandidateFeatures `json:"engineered_features"`
	Embedding          []float32         `json:"embedding"`
}

// RankedCandidate pairs a corpus entry with its similarity score for a job.
type RankedCandidate struct {
	Candidate *ProcessedCandidate `json:"candidate"`
	Score     float64             `json:"score"`
}
